package expr

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Selector evaluates a boolean selection expression.
type Selector struct {
	program    cel.Program
	expression string
}

// NewSelector compiles expression in a selection environment.
func NewSelector(expression string) (*Selector, error) {
	env, err := NewSelectionEnvironment()
	if err != nil {
		return nil, err
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", expression, err)
	}

	return &Selector{program: program, expression: expression}, nil
}

// Match evaluates the expression with the given variables.
func (s *Selector) Match(vars map[string]any) (bool, error) {
	result, _, err := s.program.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", s.expression, err)
	}

	b, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: result is %s, not bool", s.expression, result.Type().TypeName())
	}

	return b, nil
}

func (s *Selector) String() string {
	return s.expression
}
