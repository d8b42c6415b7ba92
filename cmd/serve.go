package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/mixcover/relay/internal/server"
	"github.com/mixcover/relay/internal/services"
	"github.com/mixcover/relay/internal/shared"
	"github.com/mixcover/relay/internal/ui"
	"github.com/urfave/cli/v3"
)

// Serve builds the router and runs the HTTP server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	router := r.buildRouter()
	srv := server.New(r.config.Server, router, r.logger)

	r.writePlain("%s\n", ui.Default.Title("mixcover relay"))
	r.writePlain("%s http://%s\n", ui.Default.OK("listening"), srv.Addr())

	for _, name := range sortedProviderNames(r.providers) {
		r.writePlain("%s %s\n", ui.Default.OK("provider"), name)
	}
	if len(r.providers) == 0 {
		r.writePlain("%s\n", ui.Default.Warn("no OAuth providers configured — /oauth/start will reject every request"))
	}
	if r.generator == nil {
		r.writePlain("%s\n", ui.Default.Warn("gemini not configured — generation endpoints answer 503"))
	}
	r.writePlain("%s\n", ui.Default.Help("ctrl+c to stop"))

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting server", "addr", srv.Addr())
	return srv.Run(runCtx)
}

// ConfigInit writes the embedded example config to disk.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	return r.writePlain("%s config written to %s\n", ui.Default.OK("✓"), path)
}

// ConfigShow prints the effective configuration with secrets redacted.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	redacted := *r.config
	redacted.Credentials.Spotify.ClientSecret = redact(r.config.Credentials.Spotify.ClientSecret)
	redacted.Credentials.Google.ClientSecret = redact(r.config.Credentials.Google.ClientSecret)
	redacted.Credentials.Gemini.APIKey = redact(r.config.Credentials.Gemini.APIKey)

	return r.writeJSON(redacted, cmd.Bool("pretty"))
}

// RoutesList prints every registered route pattern.
func (r *Runner) RoutesList(ctx context.Context, cmd *cli.Command) error {
	for _, route := range r.buildRouter().Routes() {
		if err := r.writePlain("%s\n", route); err != nil {
			return err
		}
	}
	return nil
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return fmt.Sprintf("[redacted %d chars]", len(secret))
}

func sortedProviderNames(providers map[string]services.Provider) []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
