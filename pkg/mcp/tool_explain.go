package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/netsense/pkg/engine"
)

// ExplainParams defines parameters for the explain_network tool.
type ExplainParams struct {
	Name string `json:"name"`
}

// ExplainResult is the result of the explain_network tool.
type ExplainResult struct {
	Message  string   `json:"message"`
	Name     string   `json:"name,omitempty"`
	Source   string   `json:"source,omitempty"`
	Policy   string   `json:"policy,omitempty"`
	Error    string   `json:"error,omitempty"`
	Signals  []Signal `json:"signals,omitempty"`
	Warnings []string `json:"warnings"`
	Found    bool     `json:"found"`
	Matched  bool     `json:"matched"`
}

// Signal is the comparison of one criterion with its observed value.
type Signal struct {
	Signal     string `json:"signal"`
	Key        string `json:"key"`
	Configured string `json:"configured,omitempty"`
	Observed   string `json:"observed,omitempty"`
	Result     string `json:"result"`
}

func (s *Server) handleExplain(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ExplainParams],
) (*mcp.CallToolResultFor[ExplainResult], error) {
	report, warnings, err := s.detect(ctx)
	if err != nil {
		return nil, err
	}

	result := ExplainResult{Warnings: warnings}

	res, err := report.Lookup(params.Arguments.Name)

	switch {
	case errors.Is(err, engine.ErrNotFound), errors.Is(err, engine.ErrAmbiguous):
		result.Message = fmt.Sprintf(
			"INVALID INPUT ERROR: %v. Use an EXACT name from the detect_networks tool.", err)

		return newExplainResult(result), nil
	case err != nil:
		return nil, fmt.Errorf("look up network definition: %w", err)
	}

	result.Found = true
	result.Name = res.Definition.DisplayName()
	result.Source = res.Definition.Source
	result.Policy = res.Definition.Criteria().Policy.String()
	result.Matched = res.Matched()

	if res.Err != nil {
		result.Error = res.Err.Error()
		result.Message = fmt.Sprintf("Network %q could not be evaluated: %s", result.Name, result.Error)

		return newExplainResult(result), nil
	}

	lines := []string{}
	for _, sr := range res.Decision.Results {
		result.Signals = append(result.Signals, Signal{
			Signal:     sr.Signal,
			Key:        sr.Key,
			Configured: sr.Configured,
			Observed:   sr.Observed,
			Result:     sr.Result.String(),
		})

		lines = append(lines, fmt.Sprintf("- %s: %s", sr.Signal, sr.Result))
	}

	verdict := "does not match"
	if result.Matched {
		verdict = "matches"
	}

	result.Message = fmt.Sprintf("Network %q %s (%s).\n%s",
		result.Name, verdict, result.Policy, strings.Join(lines, "\n"))

	return newExplainResult(result), nil
}

func newExplainResult(result ExplainResult) *mcp.CallToolResultFor[ExplainResult] {
	return &mcp.CallToolResultFor[ExplainResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: result.Message}},
		StructuredContent: result,
	}
}
