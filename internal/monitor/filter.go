package monitor

import (
	"strings"

	"github.com/Abbiirr/simple-procmon/internal/sampler"
)

// typeAliases maps a process-type selector to the executable name
// substrings it covers. An unknown selector is used as a literal
// substring, so "--type nginx" works without an alias entry.
var typeAliases = map[string][]string{
	"all":    nil,
	"python": {"python", "pythonw"},
	"node":   {"node", "bun"},
	"java":   {"java"},
	"ruby":   {"ruby"},
	"php":    {"php"},
	"dotnet": {"dotnet"},
}

// matches applies the process-type selector and the free-form pattern.
// Trace mode narrows everything down to the single traced pid.
func (m *Monitor) matches(p sampler.ProcInfo) bool {
	if m.cfg.TracePID != 0 {
		return p.PID == m.cfg.TracePID
	}

	name := strings.ToLower(p.Name)
	if t := strings.ToLower(m.cfg.ProcessType); t != "" && t != "all" {
		aliases, ok := typeAliases[t]
		if !ok {
			aliases = []string{t}
		}
		found := false
		for _, alias := range aliases {
			if strings.Contains(name, alias) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if m.cfg.Pattern != "" {
		pat := strings.ToLower(m.cfg.Pattern)
		if !strings.Contains(name, pat) &&
			!strings.Contains(strings.ToLower(p.Cmdline), pat) {
			return false
		}
	}
	return true
}
