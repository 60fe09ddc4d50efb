// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "catalog",
			Usage: "Path to a catalog JSON file (defaults to the bundled catalog)",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "Listened filter: all, selected or not-selected",
			Value:   "all",
		},
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"q"},
			Usage:   "Case-insensitive name search",
		},
		&cli.BoolFlag{
			Name:  "fuzzy",
			Usage: "Match the search term as a subsequence",
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml if missing, initialize the database and run migrations",
		Action: r.Setup,
	}
}

// playlistsCommand handles operations on the saved collection
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Browse and update the saved playlist collection",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlists in display order",
				Flags: append(append(viewFlags(), outputFlags()...),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of playlists to print (0 for all)",
					},
				),
				Action: r.PlaylistsList,
			},
			{
				Name:      "toggle",
				Usage:     "Flip the listened flag of a playlist",
				ArgsUsage: "<url-or-name>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Action: r.PlaylistsToggle,
			},
			{
				Name:   "reverse",
				Usage:  "Reverse the display order",
				Action: r.PlaylistsReverse,
			},
			{
				Name:  "sort",
				Usage: "Order playlists by total duration",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "desc",
						Usage: "Longest first",
					},
				},
				Action: r.PlaylistsSort,
			},
			{
				Name:  "export",
				Usage: "Export the (filtered) collection to a file",
				Flags: append(viewFlags(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, text or json",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: playlists.<ext>)",
					},
				),
				Action: r.PlaylistsExport,
			},
			{
				Name:      "open",
				Usage:     "Open a playlist in the browser",
				ArgsUsage: "<url-or-name>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Action: r.PlaylistsOpen,
			},
			{
				Name:   "reset",
				Usage:  "Forget listened flags and the stored order",
				Action: r.PlaylistsReset,
			},
		},
	}
}

// authCommand handles the captured access token
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the captured access token",
		Commands: []*cli.Command{
			{
				Name:      "capture",
				Usage:     "Store the access token from a redirect URL or fragment",
				ArgsUsage: "<callback-url>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Action: r.AuthCapture,
			},
			{
				Name:  "listen",
				Usage: "Serve the callback page and wait for a redirect to deliver a token",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the redirect",
						Value: defaultCaptureTimeout,
					},
				},
				Action: r.AuthListen,
			},
			{
				Name:   "status",
				Usage:  "Report whether a token is stored",
				Flags:  outputFlags(),
				Action: r.AuthStatus,
			},
		},
	}
}

// serveCommand runs the web interface
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web interface and JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port from config)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal",
				Value: "./tmp/sortify-tui.log",
			},
		},
		Action: r.TUI,
	}
}
