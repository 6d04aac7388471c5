package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"

	"github.com/macropower/netsense/pkg/engine"
	"github.com/macropower/netsense/pkg/log"
	"github.com/macropower/netsense/pkg/version"
)

var tracer = otel.Tracer("github.com/macropower/netsense/pkg/mcp")

// Detector runs one detection per call.
type Detector interface {
	Detect(ctx context.Context) (*engine.Report, error)
}

// Server is the netsense MCP server.
type Server struct {
	detector Detector
	server   *mcp.Server
	address  string
}

// NewServer creates a [Server]. An empty address serves over stdio; any
// other address serves streamable HTTP.
func NewServer(address string, detector Detector) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address:  address,
		detector: detector,
		server:   mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
	}

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: detectToolName,
		Description: "Observe the current network and list every network definition that matches it, " +
			"with the commands to run to connect.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, WithTracing(tracer, s.handleDetect))

	mcp.AddTool(s.server, &mcp.Tool{
		Name: explainToolName,
		Description: "Explain how one network definition compared with the observed network. " +
			"Use a name from the detect_networks output.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"name": {
					Type:        "string",
					Description: "The network definition name, or its file name without extension.",
				},
			},
			Required: []string{"name"},
		},
	}, WithTracing(tracer, s.handleExplain))
}

// detect runs the detector, returning the warnings logged while it ran.
func (s *Server) detect(ctx context.Context) (*engine.Report, []string, error) {
	capture := log.NewCapture(0)
	ctx = log.NewContext(ctx, capture.Logger(slog.LevelWarn))

	report, err := s.detector.Detect(ctx)
	if err != nil {
		return nil, capture.Lines(), fmt.Errorf("detect networks: %w", err)
	}

	return report, capture.Lines(), nil
}

// Server returns the underlying MCP server.
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve serves until ctx is canceled or the transport closes.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.server.Run(ctx, mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr))
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	return s.serveHTTP(ctx)
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:              s.address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.Error("shut down MCP server", slog.Any("error", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}
