package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/macropower/netsense/pkg/definition"
)

// LintError reports a command that does not parse as a shell command line.
type LintError struct {
	Err     error
	Command string
	Index   int
}

func (e *LintError) Error() string {
	return fmt.Sprintf("connect_commands[%d] %q: %v", e.Index, e.Command, e.Err)
}

func (e *LintError) Unwrap() error {
	return e.Err
}

// Lint checks that each connect command of def is a well-formed shell
// command line. Multi-line commands are checked line by line, and comment
// lines are ignored.
func Lint(def *definition.NetworkDefinition) []error {
	var errs []error

	for i, cmd := range def.ConnectCommands {
		for line := range strings.SplitSeq(cmd, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			p := shellwords.NewParser()
			p.ParseBacktick = false
			p.ParseEnv = false

			_, err := p.Parse(line)
			if err != nil {
				errs = append(errs, &LintError{Index: i, Command: line, Err: err})
			}
		}
	}

	return errs
}
