package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/netsense/pkg/definition"
	"github.com/macropower/netsense/pkg/expr"
	"github.com/macropower/netsense/pkg/log"
	"github.com/macropower/netsense/pkg/match"
	"github.com/macropower/netsense/pkg/probe"
)

var tracer = otel.Tracer("github.com/macropower/netsense/pkg/engine")

// Result is the outcome of evaluating one definition.
type Result struct {
	Err        error
	Definition *definition.NetworkDefinition
	Decision   match.Decision
}

// Matched reports whether the definition matched without error.
func (r Result) Matched() bool {
	return r.Err == nil && r.Decision.Matched
}

// Report is the outcome of one evaluation run.
type Report struct {
	// Results holds one entry per evaluated definition, in load order.
	Results []Result
	// Deselected holds definitions excluded by the selector.
	Deselected []*definition.NetworkDefinition
	// Observed holds the signals observed during the run.
	Observed probe.ObservedState
	// TakenAt is when the signals were first observed, if known.
	TakenAt time.Time
}

// Matches returns the matching results, in load order.
func (r *Report) Matches() []Result {
	var out []Result

	for _, res := range r.Results {
		if res.Matched() {
			out = append(out, res)
		}
	}

	return out
}

// Failures returns the results that failed, in load order.
func (r *Report) Failures() []Result {
	var out []Result

	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}

	return out
}

// Err joins the errors of all failed results.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failures() {
		errs = append(errs, fmt.Errorf("%s: %w", res.Definition, res.Err))
	}

	return errors.Join(errs...)
}

// Opt configures an [Engine].
type Opt func(*Engine)

// WithSelector only evaluates definitions for which s matches.
func WithSelector(s *expr.Selector) Opt {
	return func(e *Engine) {
		e.selector = s
	}
}

// Engine evaluates network definitions.
type Engine struct {
	selector *expr.Selector
}

// New creates an [Engine].
func New(opts ...Opt) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate evaluates every definition against the observer, in order.
//
// Definitions with malformed values (see [match.FormatError]) or selector
// evaluation errors are recorded as failed results and evaluation
// continues. Any other error, such as a failure to observe a signal, stops
// evaluation and is returned without a report.
func (e *Engine) Evaluate(ctx context.Context, defs []*definition.NetworkDefinition, obs match.Observer) (*Report, error) {
	ctx, span := tracer.Start(ctx, "evaluate",
		trace.WithAttributes(attribute.Int("definitions", len(defs))),
	)
	defer span.End()

	report := &Report{
		Results: make([]Result, 0, len(defs)),
	}

	for _, def := range defs {
		if e.selector != nil {
			ok, err := e.selector.Match(SelectionVars(def))
			if err != nil {
				report.Results = append(report.Results, Result{Definition: def, Err: err})

				continue
			}

			if !ok {
				log.WithContext(ctx).Debug("definition not selected",
					slog.String("definition", def.DisplayName()),
					slog.String("source", def.Source),
					slog.String("selector", e.selector.String()),
				)

				report.Deselected = append(report.Deselected, def)

				continue
			}
		}

		res, err := e.evaluate(ctx, def, obs)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return nil, err
		}

		report.Results = append(report.Results, res)
	}

	if s, ok := obs.(interface{ Observed() probe.ObservedState }); ok {
		report.Observed = s.Observed()
	}
	if s, ok := obs.(interface{ TakenAt() time.Time }); ok {
		report.TakenAt = s.TakenAt()
	}

	span.SetAttributes(
		attribute.Int("matches", len(report.Matches())),
		attribute.Int("failures", len(report.Failures())),
	)

	return report, nil
}

func (e *Engine) evaluate(ctx context.Context, def *definition.NetworkDefinition, obs match.Observer) (Result, error) {
	ctx, span := tracer.Start(ctx, "evaluate definition",
		trace.WithAttributes(
			attribute.String("name", def.DisplayName()),
			attribute.String("source", def.Source),
		),
	)
	defer span.End()

	res := Result{Definition: def}

	d, err := match.Evaluate(ctx, def.Criteria(), obs)
	if errors.Is(err, match.ErrFormat) {
		log.WithContext(ctx).Warn("invalid network definition",
			slog.String("definition", def.DisplayName()),
			slog.String("source", def.Source),
			slog.Any("error", err),
		)

		span.RecordError(err)

		res.Err = err

		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", def, err)
	}

	res.Decision = d

	span.SetAttributes(
		attribute.String("policy", d.Policy.String()),
		attribute.Bool("matched", d.Matched),
	)

	log.WithContext(ctx).Debug("evaluated definition",
		slog.String("definition", def.DisplayName()),
		slog.String("policy", d.Policy.String()),
		slog.Bool("matched", d.Matched),
	)

	return res, nil
}

// SelectionVars returns the selector variables for a definition.
func SelectionVars(def *definition.NetworkDefinition) map[string]any {
	criteria := map[string]string{}

	c := def.Criteria()
	for _, s := range match.Signals {
		if v := s.Value(c); v != nil {
			criteria[s.Key] = *v
		}
	}

	commands := []string(def.ConnectCommands)
	if commands == nil {
		commands = []string{}
	}

	return map[string]any{
		expr.VarName:     def.DisplayName(),
		expr.VarSource:   def.Source,
		expr.VarCriteria: criteria,
		expr.VarPolicy:   c.Policy.String(),
		expr.VarCommands: commands,
	}
}
