package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mixcover/relay/internal/relay"
	"github.com/mixcover/relay/internal/server"
	"github.com/mixcover/relay/internal/services"
	"github.com/mixcover/relay/internal/shared"
	"github.com/mixcover/relay/internal/studio"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	providers map[string]services.Provider
	generator studio.Generator
	logger    *log.Logger
	output    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Providers map[string]services.Provider
	Generator studio.Generator
	Logger    *log.Logger
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Providers == nil {
		opts.Providers = map[string]services.Provider{}
	}

	return &Runner{
		config:    opts.Config,
		providers: opts.Providers,
		generator: opts.Generator,
		logger:    opts.Logger,
		output:    opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, configCommand, routesCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// buildRouter assembles the full HTTP surface: middleware stack, OAuth relay
// handlers, generation proxies and the liveness root.
func (r *Runner) buildRouter() *server.BasicRouter {
	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.RequestLogger(r.logger), server.Recover(r.logger))

	store := relay.NewMemoryStore()
	finisher := relay.NewFinisher(store, r.logger)

	router.Handler(relay.NewStartHandler(store, r.providers, r.logger))
	router.Handler(relay.NewCallbackHandler(r.providers, finisher, r.logger))
	router.Handler(studio.NewHandlers(r.generator, r.logger))
	router.Handle(http.MethodGet, "/", http.HandlerFunc(liveness))

	return router
}

// liveness answers the root path with a plaintext marker.
func liveness(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "mixcover relay ok")
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
