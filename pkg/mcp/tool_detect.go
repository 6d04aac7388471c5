package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/netsense/pkg/definition"
	"github.com/macropower/netsense/pkg/engine"
	"github.com/macropower/netsense/pkg/probe"
	"github.com/macropower/netsense/pkg/render"
)

// DetectParams defines parameters for the detect_networks tool.
type DetectParams struct{}

// DetectResult is the result of the detect_networks tool.
type DetectResult struct {
	Message  string              `json:"message"`
	Observed probe.ObservedState `json:"observed"`
	Matches  []Network           `json:"matches"`
	Failures []Failure           `json:"failures"`
	Warnings []string            `json:"warnings"`
}

// Network is a matching network definition.
type Network struct {
	Name     string   `json:"name"`
	Source   string   `json:"source"`
	Commands []string `json:"commands"`
}

// Failure is a network definition that could not be evaluated.
type Failure struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Error  string `json:"error"`
}

func (s *Server) handleDetect(
	ctx context.Context,
	_ *mcp.ServerSession,
	_ *mcp.CallToolParamsFor[DetectParams],
) (*mcp.CallToolResultFor[DetectResult], error) {
	report, warnings, err := s.detect(ctx)
	if err != nil {
		return nil, err
	}

	result := DetectResult{
		Observed: report.Observed,
		Matches:  []Network{},
		Failures: []Failure{},
		Warnings: warnings,
	}

	matched := []*definition.NetworkDefinition{}
	for _, res := range report.Matches() {
		matched = append(matched, res.Definition)
		result.Matches = append(result.Matches, Network{
			Name:     res.Definition.DisplayName(),
			Source:   res.Definition.Source,
			Commands: render.NewBlock(res.Definition).Commands,
		})
	}

	for _, res := range report.Failures() {
		result.Failures = append(result.Failures, newFailure(res))
	}

	result.Message = fmt.Sprintf("Found %d matching networks.", len(result.Matches))
	if len(result.Failures) > 0 {
		result.Message += fmt.Sprintf(" %d network definitions could not be evaluated.", len(result.Failures))
	}

	text := result.Message
	if len(matched) > 0 {
		text += "\n\n" + truncate(render.Plain(matched), maxPreviewBytes)
	}

	return &mcp.CallToolResultFor[DetectResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: text}},
		StructuredContent: result,
	}, nil
}

func newFailure(res engine.Result) Failure {
	return Failure{
		Name:   res.Definition.DisplayName(),
		Source: res.Definition.Source,
		Error:  res.Err.Error(),
	}
}
