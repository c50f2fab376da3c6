// Package safety classifies proposed shell invocations as pre-approved or
// requiring explicit human confirmation. The classifier is pure and stateless:
// given a tokenized command it returns a verdict, defaulting to deny for
// anything it does not positively recognize as read-only or harmless.
package safety

import (
	"regexp"
	"strings"
)

// readOnlyCommands are inspection commands that never mutate the workspace.
var readOnlyCommands = map[string]bool{
	"ls":       true,
	"cat":      true,
	"head":     true,
	"tail":     true,
	"wc":       true,
	"grep":     true,
	"rg":       true,
	"find":     true,
	"pwd":      true,
	"echo":     true,
	"which":    true,
	"file":     true,
	"stat":     true,
	"du":       true,
	"df":       true,
	"tree":     true,
	"whoami":   true,
	"date":     true,
	"env":      true,
	"printenv": true,
}

// gitReadSubcommands are git subcommands that only query repository state.
// Additional flags do not change the verdict for these.
var gitReadSubcommands = map[string]bool{
	"status":   true,
	"log":      true,
	"diff":     true,
	"show":     true,
	"branch":   true,
	"remote":   true,
	"ls-files": true,
	"blame":    true,
}

// destructiveFlags disqualify an otherwise-approved script invocation.
var destructiveFlags = map[string]bool{
	"-f":       true,
	"--force":  true,
	"--delete": true,
	"--remove": true,
	"--purge":  true,
	"--hard":   true,
}

var (
	numericModeRe  = regexp.MustCompile(`^[0-7]{3,4}$`)
	symbolicModeRe = regexp.MustCompile(`^[ugoa]*([-+=][rwxXstugo]+)+$`)
)

// IsPreApproved reports whether a tokenized shell invocation may run without
// human confirmation. Rules are applied in priority order; any command that
// matches none of them is denied.
func IsPreApproved(command []string) bool {
	// sudo never changes the verdict of the underlying command.
	if len(command) > 0 && command[0] == "sudo" {
		command = command[1:]
	}
	if len(command) == 0 {
		return false
	}

	switch command[0] {
	case "chmod":
		return isSafeChmod(command[1:])
	case "git":
		return len(command) >= 2 && gitReadSubcommands[command[1]]
	case "sed":
		return isSafeSed(command[1:])
	}

	if readOnlyCommands[command[0]] {
		return true
	}

	if strings.HasPrefix(command[0], "./") {
		return isSafeScript(command[1:])
	}

	return false
}

// isSafeChmod approves chmod only when an explicit mode token is present:
// either a numeric mode or a symbolic mode granting an execute bit. A chmod
// with no recognizable mode fails closed.
func isSafeChmod(args []string) bool {
	if len(args) == 0 {
		return false
	}
	mode := args[0]
	if numericModeRe.MatchString(mode) {
		return true
	}
	if symbolicModeRe.MatchString(mode) && strings.ContainsAny(mode, "xX") {
		return true
	}
	return false
}

// isSafeSed approves sed unless it edits files in place.
func isSafeSed(args []string) bool {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-i") || strings.HasPrefix(arg, "--in-place") {
			return false
		}
	}
	return true
}

// isSafeScript approves a ./script invocation unless a flag implies
// destructive behavior.
func isSafeScript(args []string) bool {
	for _, arg := range args {
		if destructiveFlags[arg] {
			return false
		}
	}
	return true
}
