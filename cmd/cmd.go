// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Confirm without prompting",
	}
}

// playlistCommand drives playlist mutations headlessly through the same coordinator the TUI uses.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlists",
				Flags: append(outputFlags(),
					&cli.StringFlag{
						Name:    "match",
						Aliases: []string{"m"},
						Usage:   "Only list playlists whose name fuzzily matches",
					},
				),
				Action: r.PlaylistList,
			},
			{
				Name:  "show",
				Usage: "Show the tracks of a playlist",
				Flags: append(outputFlags(),
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (text, markdown, csv)",
						Value:   "text",
					},
				),
				Action: r.PlaylistShow,
			},
			{
				Name:  "create",
				Usage: "Create an empty playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Playlist name (alternative to the argument)",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Usage:    "New name",
						Required: true,
					},
				},
				Action: r.PlaylistRename,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Name shown in the confirmation (looked up when omitted)",
					},
					yesFlag(),
				},
				Action: r.PlaylistDelete,
			},
			{
				Name:  "add",
				Usage: "Add tracks or a whole category to a playlist",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "playlist",
						Usage: "Target playlist ID (prompted for when omitted)",
					},
					&cli.StringSliceFlag{
						Name:    "track",
						Aliases: []string{"t"},
						Usage:   "External ID of a track to add (repeatable)",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category type to add (artist, album_artist, album, genre)",
					},
					&cli.Int64Flag{
						Name:  "category-id",
						Usage: "Category ID to add",
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a track from a playlist",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "playlist",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "external-id",
						Usage:    "External ID of the track",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "position",
						Usage:    "Zero-based position of the track in the playlist",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Track title shown in the confirmation",
					},
					yesFlag(),
				},
				Action: r.PlaylistRemove,
			},
		},
	}
}

// stateCommand inspects dialogs persisted between runs.
func stateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "Inspect persisted dialog state",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List dialogs left open by previous runs",
				Flags:  outputFlags(),
				Action: r.StateList,
			},
			{
				Name:   "clear",
				Usage:  "Discard every persisted dialog",
				Flags:  []cli.Flag{yesFlag()},
				Action: r.StateClear,
			},
			{
				Name:   "reset",
				Usage:  "Rebuild the state database schema, discarding every persisted dialog",
				Flags:  []cli.Flag{yesFlag()},
				Action: r.StateReset,
			},
		},
	}
}

// setupCommand creates the config file and state database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config file and initialize the state database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// tuiCommand launches the interactive terminal UI.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse the library and manage playlists interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file used while the TUI is running",
			},
		},
		Action: r.TUI,
	}
}
