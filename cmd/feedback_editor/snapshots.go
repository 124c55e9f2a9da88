package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-feedback/internal/db"
	"github.com/jonathan/interview-feedback/internal/observability"
	"github.com/jonathan/interview-feedback/internal/snapshot"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect stored report snapshots",
	Long:  "Reads snapshots from the PostgreSQL (database_url) or SQLite (sqlite_path) store.",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the snapshots of a file, newest first",
	RunE:  runSnapshotsList,
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <snapshot-id>",
	Short: "Print the reports of one snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotsShow,
}

var (
	snapshotsFileID string
	snapshotsUserID string
)

func init() {
	snapshotsListCmd.Flags().StringVar(&snapshotsFileID, "file-id", "", "File id of the transcript (required)")
	snapshotsListCmd.Flags().StringVar(&snapshotsUserID, "user-id", "", "User id the snapshots belong to")
	if err := snapshotsListCmd.MarkFlagRequired("file-id"); err != nil {
		panic(fmt.Sprintf("failed to mark file-id flag as required: %v", err))
	}

	snapshotsCmd.AddCommand(snapshotsListCmd, snapshotsShowCmd)
	rootCmd.AddCommand(snapshotsCmd)
}

// openLocalStore opens the configured database store.
func openLocalStore(ctx context.Context) (snapshot.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	switch {
	case cfg.DatabaseURL != "":
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case cfg.SQLitePath != "":
		lite, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return lite, func() { _ = lite.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("no snapshot database configured: set database_url or sqlite_path")
	}
}

func runSnapshotsList(cmd *cobra.Command, _ []string) error {
	store, closeStore, err := openLocalStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	history, err := store.History(cmd.Context(), snapshotsFileID, snapshotsUserID)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSnapshotHistory(history)
	return nil
}

func runSnapshotsShow(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openLocalStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	snap, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Snapshot %s (file %s, version %d, %s", snap.ID, snap.FileID, snap.Version, snap.Trigger)
	if snap.IsCurrent {
		fmt.Fprint(out, ", current")
	}
	fmt.Fprintln(out, ")")

	printer := observability.NewPrinter(out)
	for _, v := range snapshot.Variants {
		rv := v.Get(snap)
		if rv == nil || !snapshot.HasMeaningfulTemplateData(rv.Editable) {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", v.Label)
		printer.PrintOrdered(rv.Editable)
	}
	return nil
}
