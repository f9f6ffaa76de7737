package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/markdown"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultMaxSteps bounds run_machine calls that do not set max_steps, so an
// agent cannot hang the server with a machine that never halts.
const DefaultMaxSteps = 1_000_000

// machinesURI lists the available machines as a resource.
const machinesURI = "turing://machines"

// RunArgs are the arguments of the run_machine tool.
type RunArgs struct {
	Machine  string `json:"machine"`
	Tape     string `json:"tape,omitempty"`
	MaxSteps int    `json:"max_steps,omitempty"`
}

// DescribeArgs are the arguments of the describe_machine tool.
type DescribeArgs struct {
	Machine string `json:"machine"`
	Format  string `json:"format,omitempty"`
}

// RunResponse is the structured result of run_machine.
type RunResponse struct {
	Status   domain.Status `json:"status" jsonschema_description:"halted or failed"`
	State    domain.State  `json:"state" jsonschema_description:"The state the machine stopped in"`
	Position int64         `json:"position" jsonschema_description:"Final head position"`
	Steps    int           `json:"steps" jsonschema_description:"Number of transitions applied"`
	Tape     []domain.Cell `json:"tape" jsonschema_description:"Touched cells in position order"`
	Error    string        `json:"error,omitempty" jsonschema_description:"Why the machine failed, if it did"`
}

// Server exposes machines from a loader as an MCP server.
type Server struct {
	loader     ports.MachineLoader
	engineOpts []turing.Option
	logger     *slog.Logger
	mcpServer  *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithEngineOptions passes options to every engine the server builds.
func WithEngineOptions(opts ...turing.Option) Option {
	return func(s *Server) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithLogger configures the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(loader ports.MachineLoader, opts ...Option) *Server {
	s := &Server{
		loader:    loader,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down
// when ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_machines
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of the available Turing machines."),
	), s.handleListMachines)

	// TOOL: describe_machine
	describeTool := mcp.NewTool("describe_machine",
		mcp.WithDescription("Describe a machine: its start, final and blank symbols and its transition table."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("The machine name")),
		mcp.WithString("format", mcp.Description("markdown (default), mermaid or json")),
	)
	s.mcpServer.AddTool(describeTool, s.handleDescribe)

	// TOOL: run_machine
	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Run a machine to completion over an initial tape and return the final configuration."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("The machine name")),
		mcp.WithString("tape", mcp.Description("Initial tape, one symbol per character from position 0. Omit to use the machine's default tape.")),
		mcp.WithNumber("max_steps", mcp.Description(fmt.Sprintf("Step budget (default %d)", DefaultMaxSteps))),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))
}

func (s *Server) handleListMachines(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.loader.ListMachines(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args DescribeArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	def, err := s.loader.GetMachine(ctx, args.Machine)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch args.Format {
	case "", "markdown":
		return mcp.NewToolResultText(markdown.Describe(def)), nil
	case "mermaid":
		return mcp.NewToolResultText(graph.GenerateMermaid(def, nil)), nil
	case "json":
		jsonBytes, _ := json.Marshal(def)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	default:
		return mcp.NewToolResultError("unknown format: " + args.Format), nil
	}
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (RunResponse, error) {
	limit := args.MaxSteps
	if limit <= 0 {
		limit = DefaultMaxSteps
	}
	opts := append([]turing.Option{turing.WithLogger(s.logger)}, s.engineOpts...)
	opts = append(opts, turing.WithStepLimit(limit))

	eng, err := turing.Load(ctx, s.loader, args.Machine, opts...)
	if err != nil {
		return RunResponse{}, err
	}

	var cells []domain.Cell
	if _, ok := request.GetArguments()["tape"]; ok {
		cells = domain.CellsFromString(args.Tape, 0)
	}

	m := eng.Start(cells)
	_, runErr := m.Run(ctx)
	if err := ctx.Err(); err != nil {
		return RunResponse{}, err
	}

	resp := RunResponse{
		Status:   m.Status(),
		State:    m.State(),
		Position: m.Position(),
		Steps:    m.Steps(),
		Tape:     m.Snapshot(),
	}
	if runErr != nil {
		resp.Error = runErr.Error()
		if !errors.Is(runErr, domain.ErrMissingTransition) && !errors.Is(runErr, domain.ErrNonTerminating) {
			return RunResponse{}, runErr
		}
	}
	return resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: turing://machines
	s.mcpServer.AddResource(mcp.NewResource(machinesURI, "Available Turing machines",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.loader.ListMachines(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list machines: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      machinesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
