// package formatter renders playlists and their tracks as plain text, Markdown or CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
)

// Format names accepted by [Write].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// ToCSV converts a playlist's tracks to CSV with columns: Position, ExternalID, Title, Artist, Album, Genre
func ToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ExternalID", "Title", "Artist", "Album", "Genre"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range tracks {
		record := []string{
			strconv.Itoa(i),
			track.ExternalID,
			track.Title,
			track.Artist,
			track.Album,
			track.Genre,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown converts a playlist and its tracks to Markdown
func ToMarkdown(playlist models.Playlist, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", playlist.Name)
	fmt.Fprintf(&buf, "**ID**: %d\n", playlist.ID)
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(tracks))

	buf.WriteString("## Tracks\n\n")
	for i, track := range tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s `%s`\n", i+1, track.Artist, track.Title, albumPart, track.ExternalID)
	}

	return buf.Bytes(), nil
}

// ToText converts a playlist and its tracks to plain text. Lines are prefixed with the zero-based position used
// by remove.
func ToText(playlist models.Playlist, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s (%d)\n", playlist.Name, playlist.ID)
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(tracks))

	for i, track := range tracks {
		fmt.Fprintf(&buf, "%3d. %s - %s [%s]\n", i, track.Artist, track.Title, track.ExternalID)
	}

	return buf.Bytes(), nil
}

// PlaylistsToText lists playlists one per line as "id  name (n tracks)".
func PlaylistsToText(playlists []models.Playlist) []byte {
	var buf bytes.Buffer
	for _, pl := range playlists {
		fmt.Fprintf(&buf, "%6d  %s (%d tracks)\n", pl.ID, pl.Name, pl.TrackCount)
	}
	return buf.Bytes()
}

// Write renders playlist and tracks in format to w.
func Write(w io.Writer, format string, playlist models.Playlist, tracks []models.Track) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatText, "":
		data, err = ToText(playlist, tracks)
	case FormatMarkdown, "md":
		data, err = ToMarkdown(playlist, tracks)
	case FormatCSV:
		data, err = ToCSV(tracks)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
