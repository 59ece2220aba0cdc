package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/plx/internal/dialogs"
	"github.com/desertthunder/plx/internal/formatter"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/urfave/cli/v3"
)

// withSession opens the dialog store and a coordinator session, runs fn and tears both down.
func (r *Runner) withSession(fn func(s *session) error) error {
	store, release, err := r.openStore()
	if err != nil {
		return err
	}
	defer release()

	s, err := r.newSession(store)
	if err != nil {
		return err
	}
	defer s.close()

	return fn(s)
}

func (r *Runner) findPlaylist(ctx context.Context, id int64) (models.Playlist, error) {
	playlists, err := r.backend.Playlists(ctx)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("failed to fetch playlists: %w", err)
	}
	for _, pl := range playlists {
		if pl.ID == id {
			return pl, nil
		}
	}
	return models.Playlist{}, fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
}

// PlaylistList prints the playlists on the server.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.backend.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}

	playlists = matchPlaylists(playlists, cmd.String("match"))

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.PlaylistsToText(playlists))
}

// matchPlaylists keeps the playlists whose name fuzzily matches term, closest first. An empty term keeps all.
func matchPlaylists(playlists []models.Playlist, term string) []models.Playlist {
	if term == "" {
		return playlists
	}

	names := make([]string, len(playlists))
	for i, p := range playlists {
		names[i] = p.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(term, names)
	sort.Stable(ranks)

	matched := make([]models.Playlist, len(ranks))
	for i, rank := range ranks {
		matched[i] = playlists[rank.OriginalIndex]
	}
	return matched
}

// PlaylistShow prints a playlist's tracks as text, Markdown or CSV.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.findPlaylist(ctx, cmd.Int64("id"))
	if err != nil {
		return err
	}

	tracks, err := r.backend.PlaylistTracks(ctx, playlist.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch tracks: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}
	return formatter.Write(r.output, cmd.String("format"), playlist, tracks)
}

// PlaylistCreate creates a playlist through the name dialog.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		name = cmd.String("name")
	}

	return r.withSession(func(s *session) error {
		if err := s.coordinator.PromptCreatePlaylist(); err != nil {
			return err
		}
		return s.answer(dialogs.TagPlaylistName, true, name)
	})
}

// PlaylistRename renames a playlist through the name dialog.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	id, name := cmd.Int64("id"), cmd.String("name")

	return r.withSession(func(s *session) error {
		if err := s.coordinator.PromptRenamePlaylist(name, id); err != nil {
			return err
		}
		return s.answer(dialogs.TagPlaylistName, true, name)
	})
}

// PlaylistDelete deletes a playlist after confirmation.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	id, name := cmd.Int64("id"), cmd.String("name")
	if name == "" {
		if pl, err := r.findPlaylist(ctx, id); err == nil {
			name = pl.Name
		}
	}

	return r.withSession(func(s *session) error {
		if err := s.coordinator.DeletePlaylist(id, name); err != nil {
			return err
		}
		return r.confirmDialog(s, dialogs.TagDeletePlaylist, cmd.Bool("yes"))
	})
}

// PlaylistRemove removes one entry from a playlist after confirmation.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	entry := models.PlaylistEntry{
		Track:      models.Track{ExternalID: cmd.String("external-id"), Title: cmd.String("title")},
		Position:   int(cmd.Int("position")),
		PlaylistID: cmd.Int64("playlist"),
	}
	if entry.Track.Title == "" {
		entry.Track.Title = entry.Track.ExternalID
	}

	return r.withSession(func(s *session) error {
		if err := s.coordinator.RemoveFromPlaylist(entry); err != nil {
			return err
		}
		return r.confirmDialog(s, dialogs.TagRemoveFromPlaylist, cmd.Bool("yes"))
	})
}

func (r *Runner) confirmDialog(s *session, tag string, yes bool) error {
	d, ok := s.registry.Get(tag)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrNoDialog, tag)
	}

	ok, err := r.confirm(d.Title()+": "+d.Message(), yes)
	if err != nil {
		return err
	}
	return s.answer(tag, ok, "")
}

// PlaylistAdd appends tracks or a whole category to a playlist. Without --playlist the target is read from input.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	externalIDs := cmd.StringSlice("track")
	categoryType := cmd.String("category")

	if len(externalIDs) == 0 && categoryType == "" {
		return fmt.Errorf("%w: --track or --category", shared.ErrMissingArgument)
	}
	if len(externalIDs) > 0 && categoryType != "" {
		return fmt.Errorf("%w: cannot combine --track and --category", shared.ErrInvalidArgument)
	}

	return r.withSession(func(s *session) error {
		var err error
		if categoryType != "" {
			_, err = s.coordinator.AddCategory(categoryType, cmd.Int64("category-id"))
		} else {
			tracks := make([]models.Track, len(externalIDs))
			for i, id := range externalIDs {
				tracks[i] = models.Track{ExternalID: id}
			}
			_, err = s.coordinator.AddTracks(tracks)
		}
		if err != nil {
			return err
		}

		target := cmd.Int64("playlist")
		if target == 0 {
			if target, err = r.askPlaylist(ctx); err != nil {
				return err
			}
		}
		return s.pick(target)
	})
}

// askPlaylist lists the playlists and reads the chosen id. An empty answer cancels.
func (r *Runner) askPlaylist(ctx context.Context) (int64, error) {
	playlists, err := r.backend.Playlists(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch playlists: %w", err)
	}
	if err := r.writePlain("%s\n%s", shared.Text(shared.MsgPickPlaylist), formatter.PlaylistsToText(playlists)); err != nil {
		return 0, err
	}

	answer, err := r.ask("playlist id")
	if err != nil || answer == "" {
		return -1, err
	}

	var id int64
	if _, err := fmt.Sscan(answer, &id); err != nil {
		return 0, fmt.Errorf("%w: playlist id %q", shared.ErrInvalidArgument, answer)
	}
	return id, nil
}

func (r *Runner) ask(prompt string) (string, error) {
	if err := r.writePlain("%s: ", prompt); err != nil {
		return "", err
	}
	line, err := r.readLine()
	return strings.TrimSpace(line), err
}
