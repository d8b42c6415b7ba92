package main

import (
	"context"
	"os"

	"github.com/mixcover/relay/internal/services"
	"github.com/mixcover/relay/internal/shared"
	"github.com/mixcover/relay/internal/studio"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("RELAY_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	providers := map[string]services.Provider{}
	if config.Credentials.Spotify.Configured() {
		if p, err := services.NewSpotifyProvider(config.Credentials.Spotify); err == nil {
			providers[p.Name()] = p
		} else {
			logger.Warn("spotify provider disabled", "error", err)
		}
	}
	if config.Credentials.Google.Configured() {
		if p, err := services.NewGoogleProvider(config.Credentials.Google); err == nil {
			providers[p.Name()] = p
		} else {
			logger.Warn("google provider disabled", "error", err)
		}
	}

	var generator studio.Generator
	if config.Credentials.Gemini.APIKey != "" {
		generator = services.NewGeminiClient(config.Credentials.Gemini, nil)
	}

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Providers: providers,
		Generator: generator,
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "mixcover-relay",
		Usage:    "OAuth relay & AI generation proxy for the mixcover web app",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
