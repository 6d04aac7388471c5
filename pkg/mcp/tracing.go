package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/netsense/pkg/log"
)

// ToolFunc handles a single typed tool call.
type ToolFunc[In, Out any] func(
	context.Context,
	*mcp.ServerSession,
	*mcp.CallToolParamsFor[In],
) (*mcp.CallToolResultFor[Out], error)

// WithTracing runs every call of fn in a span named after the tool. Calls
// are logged with the span's trace ID; failures also mark the span.
func WithTracing[In, Out any](tracer trace.Tracer, fn ToolFunc[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(
		ctx context.Context,
		ss *mcp.ServerSession,
		params *mcp.CallToolParamsFor[In],
	) (*mcp.CallToolResultFor[Out], error) {
		ctx, span := tracer.Start(ctx, "tool "+params.Name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", params.Name)),
		)
		defer span.End()

		logger := log.WithContext(ctx).With(slog.String("tool", params.Name))
		logger.DebugContext(ctx, "tool call", slog.Any("args", params.Arguments))

		start := time.Now()
		res, err := fn(ctx, ss, params)
		took := slog.Duration("took", time.Since(start))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "tool call failed", took, slog.Any("error", err))

			return res, err
		}

		logger.DebugContext(ctx, "tool call done", took)

		return res, nil
	}
}
