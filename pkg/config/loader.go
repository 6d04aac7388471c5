package config

import (
	"bytes"
	"errors"
	"io"

	"github.com/macropower/netsense/api"
	"github.com/macropower/netsense/pkg/yaml"
)

// ErrEmpty indicates that a document contained no value.
var ErrEmpty = errors.New("empty document")

// Validator checks a decoded document, e.g. [*yaml.Validator].
type Validator interface {
	Validate(data any) error
}

// Object is implemented by every type a [Loader] can produce.
type Object interface {
	EnsureDefaults()
}

type loaderSettings struct {
	validator Validator
	colored   bool
}

// Option is a [Loader] option that is independent of the loaded type.
type Option func(*loaderSettings)

// WithValidator replaces the default validator.
func WithValidator(v Validator) Option {
	return func(s *loaderSettings) { s.validator = v }
}

// WithColor enables ANSI colors in annotated error source.
func WithColor(colored bool) Option {
	return func(s *loaderSettings) { s.colored = colored }
}

// Loader decodes a single YAML document into a T. Errors are annotated with
// the offending position in the document.
type Loader[T Object] struct {
	newFunc   func() T
	validator Validator
	errs      *yaml.ErrorWrapper
	source    []byte
}

// NewLoaderFromBytes returns a [Loader] for data. newFunc constructs the
// empty T that documents are decoded into.
func NewLoaderFromBytes[T Object](data []byte, newFunc func() T, defaultValidator Validator, opts ...Option) *Loader[T] {
	s := loaderSettings{validator: defaultValidator}
	for _, opt := range opts {
		opt(&s)
	}

	return &Loader[T]{
		newFunc:   newFunc,
		validator: s.validator,
		source:    data,
		errs:      yaml.NewErrorWrapper(yaml.WithSource(data), yaml.WithColor(s.colored)),
	}
}

// NewLoaderFromFile reads path and returns a [Loader] for its content.
func NewLoaderFromFile[T Object](path string, newFunc func() T, defaultValidator Validator, opts ...Option) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // ReadFile names the path.
	}

	return NewLoaderFromBytes(data, newFunc, defaultValidator, opts...), nil
}

// Validate checks the document against the validator, if any. An empty or
// null document is reported as [ErrEmpty].
func (l *Loader[T]) Validate() error {
	var doc any

	err := l.decode(&doc)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrEmpty
	}
	if l.validator == nil {
		return nil
	}

	return l.errs.Wrap(l.validator.Validate(doc))
}

// Load decodes the document and applies defaults. It does not validate; an
// empty document yields the defaults.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	cfg := l.newFunc()

	err := l.decode(cfg)
	if err != nil && !errors.Is(err, ErrEmpty) {
		var zero T

		return zero, err
	}

	cfg.EnsureDefaults()

	return cfg, nil
}

func (l *Loader[T]) decode(v any) error {
	err := yaml.NewDecoder(bytes.NewReader(l.source)).Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrEmpty
	}

	return l.errs.Wrap(err)
}
