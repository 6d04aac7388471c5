package engine

import (
	"context"
	"fmt"

	"github.com/macropower/netsense/pkg/definition"
	"github.com/macropower/netsense/pkg/probe"
)

// Source provides network definitions.
type Source interface {
	Load(ctx context.Context) ([]*definition.NetworkDefinition, error)
}

// Detector runs complete detections: it loads definitions, observes the
// network through a fresh [probe.Snapshot] and evaluates.
type Detector struct {
	source Source
	prober probe.Prober
	engine *Engine
}

// NewDetector creates a [Detector].
func NewDetector(src Source, p probe.Prober, e *Engine) *Detector {
	if e == nil {
		e = New()
	}

	return &Detector{source: src, prober: p, engine: e}
}

// Detect runs one detection. Each call observes the network anew, unless
// the prober caches.
func (d *Detector) Detect(ctx context.Context) (*Report, error) {
	defs, err := d.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load network definitions: %w", err)
	}

	return d.engine.Evaluate(ctx, defs, probe.NewSnapshot(d.prober))
}
