// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration, database and authentication.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example config.toml to the --config path",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the run history database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt", "ytmusic"},
				Usage:   "Configure YouTube Music authentication from browser headers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Path of the auth file written by the proxy (default: credentials.youtube.auth_file)",
					},
				},
				Action: r.SetupYouTube,
			},
			{
				Name:  "yandex",
				Usage: "Open the Yandex OAuth page, or store a token with --token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "token",
						Usage: "Access token copied from the redirect URL",
					},
					&cli.StringFlag{
						Name:  "client-id",
						Usage: "OAuth client id (default: the Yandex Music app)",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL without opening a browser",
					},
				},
				Action: r.SetupYandex,
			},
		},
	}
}

// yandexCommand handles Yandex Music (source) operations
func yandexCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "yandex",
		Aliases: []string{"ym"},
		Usage:   "Yandex Music operations",
		Commands: []*cli.Command{
			{
				Name:  "liked",
				Usage: "List liked tracks, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Resolve at most this many tracks (0 for all)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.YandexLiked,
			},
			{
				Name:  "playlists",
				Usage: "List the account's playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.YandexPlaylists,
			},
			{
				Name:  "map",
				Usage: "Write a playlist map of Yandex playlists keyed by kind",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "yandex_playlists_map.yaml",
					},
				},
				Action: r.YandexMap,
			},
		},
	}
}

// ytmusicCommand handles YouTube Music (target) operations
func ytmusicCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "ytmusic",
		Aliases: []string{"ytm", "yt"},
		Usage:   "YouTube Music operations",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Check that the proxy is reachable (calls /health)",
				Action: r.YTMusicStatus,
			},
			{
				Name:  "playlists",
				Usage: "List library playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.YTMusicPlaylists,
			},
			{
				Name:  "artists",
				Usage: "List the artists of a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "playlist",
						Aliases:  []string{"p"},
						Usage:    "Playlist id or title",
						Required: true,
					},
				},
				Action: r.YTMusicArtists,
			},
			{
				Name:  "search",
				Usage: "Search YouTube Music for songs and show the match that would be liked",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.YTMusicSearch,
			},
		},
	}
}

// transferCommand handles the liked track transfer
func transferCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "Transfer tracks from Yandex Music to YouTube Music",
		Commands: []*cli.Command{
			{
				Name:  "likes",
				Usage: "Like every Yandex Music liked track on YouTube Music, oldest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Report file path (default: library.report_path)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Report format (json or csv)",
						Value:   "json",
					},
				},
				Action: r.TransferLikes,
			},
		},
	}
}

// organizeCommand handles coverage and distribution of liked tracks into playlists
func organizeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "organize",
		Aliases: []string{"org"},
		Usage:   "Sort liked YouTube Music tracks into artist playlists",
		Commands: []*cli.Command{
			{
				Name:  "orphans",
				Usage: "Write liked tracks that are in no other playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: library.orphans_path)",
					},
				},
				Action: r.OrganizeOrphans,
			},
			{
				Name:  "map",
				Usage: "Rebuild the artist playlist map from the current library",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: library.artist_map)",
					},
				},
				Action: r.OrganizeMap,
			},
			{
				Name:  "distribute",
				Usage: "Add orphaned liked tracks to the playlists of their artists",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "map",
						Aliases: []string{"m"},
						Usage:   "Artist playlist map (default: library.artist_map)",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Show the plan without adding anything",
					},
				},
				Action: r.OrganizeDistribute,
			},
		},
	}
}

// historyCommand handles recorded transfer runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect recorded transfer runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List transfer runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one run by id or sequence number",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "run",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only show tracks with this status (imported, not_found, errored, pending)",
					},
				},
				Action: r.HistoryShow,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive menu.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui", "menu"},
		Usage:   "Launch the interactive menu",
		Action:  r.TUI,
	}
}
