package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/plx/internal/dialogs"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/urfave/cli/v3"
)

type stateRow struct {
	Tag     string    `json:"tag"`
	Kind    string    `json:"kind"`
	Params  string    `json:"params"`
	ShownAt time.Time `json:"shown_at"`
}

// StateList prints the dialogs persisted by previous runs.
func (r *Runner) StateList(ctx context.Context, cmd *cli.Command) error {
	store, release, err := r.openStore()
	if err != nil {
		return err
	}
	defer release()

	records, err := store.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		rows := make([]stateRow, len(records))
		for i, rec := range records {
			rows[i] = stateRow{Tag: rec.Tag, Kind: rec.Kind.String(), Params: rec.Params, ShownAt: rec.ShownAt}
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		return r.writePlain("no persisted dialogs\n")
	}
	for _, rec := range records {
		if err := r.writePlain("%-24s %s  %s\n", rec.Tag, rec.ShownAt.Local().Format(time.DateTime), describe(rec)); err != nil {
			return err
		}
	}
	return nil
}

// describe renders the dialog message for rec, falling back to the raw params.
func describe(rec dialogs.Record) string {
	p, err := dialogs.DecodeRecord(rec)
	if err != nil {
		return rec.Params
	}
	return dialogs.Message(p)
}

// StateClear discards every persisted dialog after confirmation.
func (r *Runner) StateClear(ctx context.Context, cmd *cli.Command) error {
	ok, err := r.confirm("Discard every persisted dialog?", cmd.Bool("yes"))
	if err != nil || !ok {
		return err
	}

	store, release, err := r.openStore()
	if err != nil {
		return err
	}
	defer release()

	if err := store.Clear(); err != nil {
		return err
	}
	r.logger.Info("cleared dialog state")
	return nil
}

// StateReset rolls the state database back to an empty schema and migrates it again after confirmation.
func (r *Runner) StateReset(ctx context.Context, cmd *cli.Command) error {
	if r.store != nil {
		return fmt.Errorf("%w: reset needs the state database", shared.ErrInvalidInput)
	}

	ok, err := r.confirm("Rebuild the state database and discard every persisted dialog?", cmd.Bool("yes"))
	if err != nil || !ok {
		return err
	}

	db, err := shared.OpenState(r.config.State)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.ResetState(db); err != nil {
		return fmt.Errorf("failed to reset state database: %w", err)
	}
	version, err := shared.SchemaVersion(db)
	if err != nil {
		return err
	}
	r.logger.Info("reset state database", "path", r.config.State.Path, "schema", version)
	return nil
}
