package yaml

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

var errNoSource = errors.New("no source")

// NewPathBuilder returns an empty [yaml.PathBuilder].
func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Error is an error located in a YAML document, either by the [*token.Token]
// it occurred at or by a [*yaml.Path] that is resolved against Source.
type Error struct {
	Err     error
	Path    *yaml.Path
	Token   *token.Token
	Source  []byte
	Colored bool
}

// ErrorOpt sets a field of an [Error].
type ErrorOpt func(e *Error)

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{Err: err}
	e.apply(opts)

	return e
}

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) { e.Path = path }
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) { e.Token = tk }
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) { e.Source = source }
}

// WithColor enables ANSI colors in the annotated source.
func WithColor(colored bool) ErrorOpt {
	return func(e *Error) { e.Colored = colored }
}

func (e *Error) apply(opts []ErrorOpt) {
	for _, opt := range opts {
		opt(e)
	}
}

func (e Error) Error() string {
	switch {
	case e.Err == nil:
		return ""
	case e.Path == nil && e.Token == nil:
		return e.Err.Error()
	}

	tk, err := e.token()
	if err != nil {
		slog.Debug("could not annotate source with error",
			slog.String("path", e.Path.String()),
			slog.Any("error", err),
		)

		return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
	}

	var pp printer.Printer

	return fmt.Sprintf("[%d:%d] %v:\n%s",
		tk.Position.Line, tk.Position.Column, e.Err,
		pp.PrintErrorToken(tk.Clone(), e.Colored),
	)
}

func (e Error) Unwrap() error {
	return e.Err
}

// token returns the token to annotate, resolving Path against Source when
// no token was recorded.
func (e Error) token() (*token.Token, error) {
	if e.Token != nil {
		return e.Token, nil
	}
	if len(e.Source) == 0 {
		return nil, errNoSource
	}

	file, err := parser.ParseBytes(e.Source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	node, err := e.Path.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", e.Path.String(), err)
	}

	return keyToken(file, node), nil
}

// keyToken returns the token of the key holding node, or the token of node
// itself when it is not a mapping value.
func keyToken(file *ast.File, node ast.Node) *token.Token {
	for _, doc := range file.Docs {
		if doc.Body == nil {
			continue
		}

		mv, ok := ast.Parent(doc.Body, node).(*ast.MappingValueNode)
		if ok && mv.Value == node {
			return mv.Key.GetToken()
		}
	}

	return node.GetToken()
}

// ErrorWrapper adds a fixed set of [ErrorOpt]s to every [*Error] it wraps.
type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{Opts: opts}
}

// Wrap applies the wrapper's options, then opts, to the [*Error] in err's
// chain. Any other error is returned unchanged.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	var yamlErr *Error
	if !errors.As(err, &yamlErr) {
		return err
	}

	yamlErr.apply(ew.Opts)
	yamlErr.apply(opts)

	return yamlErr
}
