// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the relay server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the OAuth relay & generation proxy server",
		Action: r.Serve,
	}
}

// configCommand manages the TOML configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage relay configuration",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Destination path for the config file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:  "show",
				Usage: "Print the effective configuration with secrets redacted",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ConfigShow,
			},
		},
	}
}

// routesCommand lists the HTTP surface
func routesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "routes",
		Usage:  "List registered HTTP routes",
		Action: r.RoutesList,
	}
}
