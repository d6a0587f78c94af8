// Package policy holds the safe-command classifier used to skip
// interactive approval for harmless shell commands.
package policy

import "strings"

// commandMetaChars are rejected outright. Single-character checks also
// catch doubled forms such as "&&" and ">>".
const commandMetaChars = ";&|><`\n"

// SafeCommandClassifier matches commands against an allow-list of
// prefixes. It is a UX convenience, never a security boundary: callers
// must still require actual isolation before trusting it.
type SafeCommandClassifier struct {
	prefixes []string
}

// DefaultSafeCommands is the stock allow-list of read-only commands.
func DefaultSafeCommands() []string {
	return []string{
		"pwd", "ls", "find", "cat", "head", "tail", "wc", "echo", "grep", "sed", "awk", "rg",
		"git status", "git diff", "git log",
	}
}

// NewSafeCommandClassifier builds a classifier over the given prefixes.
// Empty entries are dropped.
func NewSafeCommandClassifier(prefixes []string) *SafeCommandClassifier {
	cleaned := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		cleaned = append(cleaned, prefix)
	}
	return &SafeCommandClassifier{prefixes: cleaned}
}

// Match returns the longest allow-list prefix matching the command and
// whether the command is considered safe. Commands containing shell
// metacharacters or command substitution never match, regardless of
// prefix.
func (c *SafeCommandClassifier) Match(command string) (string, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", false
	}
	if strings.ContainsAny(command, commandMetaChars) || strings.Contains(command, "$(") {
		return "", false
	}
	best := ""
	for _, prefix := range c.prefixes {
		if command != prefix && !strings.HasPrefix(command, prefix+" ") {
			continue
		}
		if len(prefix) > len(best) {
			best = prefix
		}
	}
	return best, best != ""
}

// IsSafe reports whether the command matches the allow-list.
func (c *SafeCommandClassifier) IsSafe(command string) bool {
	_, ok := c.Match(command)
	return ok
}
