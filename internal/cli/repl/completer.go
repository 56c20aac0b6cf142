package repl

import (
	"sort"
	"strings"
)

// Builtins are handled by the shell itself.
var Builtins = []string{"exit", "quit", "help", "history"}

// Completer suggests command paths for a typed prefix.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer over command paths such as
// "history list". Built-ins are always included.
func NewCompleter(paths []string) *Completer {
	seen := map[string]bool{}
	var commands []string
	for _, p := range append(append([]string{}, paths...), Builtins...) {
		if !seen[p] {
			seen[p] = true
			commands = append(commands, p)
		}
	}
	sort.Strings(commands)
	return &Completer{commands: commands}
}

// Complete returns completion suggestions for the given prefix. Repeated
// spaces in the prefix are ignored.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.Join(strings.Fields(prefix), " ")
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
