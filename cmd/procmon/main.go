package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := buildRoot().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRoot() *cobra.Command {
	monitorFlags := &MonitorFlags{}
	serveFlags := &MonitorFlags{}
	traceFlags := &TraceFlags{}

	root := createRootCommand(monitorFlags)
	root.AddCommand(
		createServeCommand(serveFlags),
		createTraceCommand(traceFlags),
		createVersionCommand(),
	)
	return root
}
