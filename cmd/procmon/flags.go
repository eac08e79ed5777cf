package main

import "time"

// MonitorFlags Flag structs to decouple cobra from logic for testing.
type MonitorFlags struct {
	ConfigPath   string
	ProcessType  string
	Pattern      string
	Interval     time.Duration
	Tree         bool
	ExportPath   string
	DBPath       string
	ServeAddr    string
	ThresholdCPU float64
	ThresholdMem float64
	Verbose      bool
	LogFile      string
}

type TraceFlags struct {
	ConfigPath string
	PID        int32
	Interval   time.Duration
	OutPath    string
	Verbose    bool
	LogFile    string
}
