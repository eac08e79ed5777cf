// Package identity attributes a raw process command line to the script
// it is actually running, rather than the interpreter executable.
package identity

import (
	"strings"
)

// scriptExts lists extensions that mark a token as a script target.
var scriptExts = map[string]struct{}{
	"py": {}, "pyw": {}, "js": {}, "ts": {}, "mjs": {}, "cjs": {},
	"jsx": {}, "tsx": {}, "rb": {}, "php": {}, "pl": {}, "sh": {},
	"ps1": {}, "bat": {}, "cmd": {},
}

// interpreterNames are substrings that identify an interpreter binary.
var interpreterNames = []string{"python", "node", "bun"}

// Extract returns the best-guess script path for a command line, or ""
// when nothing script-like is present.
//
// The first token that is a full path (absolute or containing a path
// separator) ending in a recognized extension wins outright. A bare
// script filename is kept as a fallback; if the command line also
// carried an interpreter path rooted in a virtualenv or a
// node_modules/.bin directory, the fallback is resolved against the
// inferred project root. When several full-path script tokens exist the
// first one wins; which of them is "the" script is not validated.
func Extract(cmdline string) string {
	if cmdline == "" {
		return ""
	}
	var exeHint, fallback string
	for _, tok := range Tokenize(cmdline) {
		if isExecutableHint(tok) {
			exeHint = tok
		}
		if !hasScriptExt(tok) {
			continue
		}
		if strings.ContainsAny(tok, `/\`) {
			return tok
		}
		if fallback == "" {
			fallback = tok
		}
	}
	if fallback != "" && exeHint != "" {
		if root := InferProjectRoot(exeHint, fallback); root != "" {
			return root
		}
	}
	return fallback
}

// Tokenize splits a command line on whitespace while keeping quoted
// spans (single or double) intact. An unterminated quote accumulates to
// the end of the input.
func Tokenize(s string) []string {
	var out []string
	var cur strings.Builder
	quote := rune(0)
	for _, r := range s {
		switch {
		case r == '\'' || r == '"':
			switch quote {
			case 0:
				quote = r
			case r:
				quote = 0
			default:
				cur.WriteRune(r)
			}
		case r == ' ' || r == '\t':
			if quote != 0 {
				cur.WriteRune(r)
			} else if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// InferProjectRoot resolves a bare script name against the installation
// prefix of the interpreter that runs it. It recognizes virtualenv
// layouts (venv or .venv followed by bin/Scripts) and npm-local
// installs (node_modules/.bin); the directory preceding that segment is
// taken as the project root. Returns "" when no such segment exists.
func InferProjectRoot(exePath, script string) string {
	if exePath == "" || script == "" {
		return ""
	}
	sep := "/"
	if strings.Contains(exePath, `\`) {
		sep = `\`
	}
	prefix := ""
	if exePath[0] == '/' || exePath[0] == '\\' {
		prefix = sep
	}
	parts := splitPath(exePath)
	for i := 0; i+1 < len(parts); i++ {
		if isEnvSegment(parts[i], parts[i+1]) {
			root := prefix + strings.Join(parts[:i], sep)
			if root == "" || root == sep {
				return prefix + script
			}
			return root + sep + script
		}
	}
	return ""
}

// Format truncates a path for display, keeping the tail since the
// filename is the interesting part.
func Format(path string, maxLen int) string {
	if maxLen <= 0 || len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}

func isEnvSegment(dir, next string) bool {
	switch strings.ToLower(dir) {
	case "venv", ".venv":
		n := strings.ToLower(next)
		return n == "bin" || n == "scripts"
	case "node_modules":
		return next == ".bin"
	}
	return false
}

func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}

// isExecutableHint reports whether a token looks like an absolute path
// to an interpreter or executable: it must be rooted (drive letter or
// leading separator) and either carry an executable suffix or name a
// known interpreter.
func isExecutableHint(tok string) bool {
	if !isRooted(tok) {
		return false
	}
	lower := strings.ToLower(tok)
	if strings.HasSuffix(lower, ".exe") || strings.HasSuffix(lower, ".com") {
		return true
	}
	for _, name := range interpreterNames {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

func isRooted(tok string) bool {
	if tok == "" {
		return false
	}
	if tok[0] == '/' || tok[0] == '\\' {
		return true
	}
	// Drive letter pattern, e.g. C:\ or K:/
	if len(tok) >= 3 && tok[1] == ':' && (tok[2] == '\\' || tok[2] == '/') {
		c := tok[0]
		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}
	return false
}

func hasScriptExt(tok string) bool {
	dot := strings.LastIndexByte(tok, '.')
	if dot < 0 || dot == len(tok)-1 {
		return false
	}
	_, ok := scriptExts[strings.ToLower(tok[dot+1:])]
	return ok
}
