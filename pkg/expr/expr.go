package expr

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Variable names available to selection expressions.
const (
	VarName     = "name"
	VarSource   = "source"
	VarCriteria = "criteria"
	VarPolicy   = "policy"
	VarCommands = "commands"
)

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment] with the netsense function
// library and the given options.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts, cel.Lib(&lib{}))

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{env: env}, nil
}

// NewSelectionEnvironment creates an [Environment] declaring the
// definition variables.
func NewSelectionEnvironment() (*Environment, error) {
	return NewEnvironment(
		cel.Variable(VarName, cel.StringType),
		cel.Variable(VarSource, cel.StringType),
		cel.Variable(VarCriteria, cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable(VarPolicy, cel.StringType),
		cel.Variable(VarCommands, cel.ListType(cel.StringType)),
	)
}

// Compile compiles a CEL expression and returns a program. The expression
// must evaluate to a bool.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("compile expression: must return bool, got %s", out)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}
