// Package tool defines the declaration contract between the turn engine
// and tool implementations. Tool business logic stays outside the
// engine; the engine only needs names, approval requirements and the
// shell tool's command argument.
package tool

import "strings"

const (
	// ShellToolName is the shell-execution tool.
	ShellToolName = "shell"
	// CommandArg is the shell tool's named command argument, used for
	// safe-command classification and display.
	CommandArg = "cmd"
)

// Declaration advertises one callable tool to the engine.
type Declaration struct {
	Name             string
	Description      string
	Parameters       map[string]any
	RequiresApproval bool
}

// IsShell reports whether name identifies the shell-execution tool.
func IsShell(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), ShellToolName)
}

// CommandFromArgs extracts the shell command from a tool-call argument
// map, empty when absent.
func CommandFromArgs(args map[string]any) string {
	command, _ := args[CommandArg].(string)
	return strings.TrimSpace(command)
}
