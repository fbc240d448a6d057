package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/gymlife/internal/config"
	"github.com/mrlokans/gymlife/internal/database"
	"github.com/mrlokans/gymlife/internal/database/exercises"
	"github.com/mrlokans/gymlife/internal/tasks"
)

// PurgeDeletedCommand removes soft-deleted exercises and their favourites
// without going through the task queue.
type PurgeDeletedCommand struct {
	DatabasePath string
	Retention    time.Duration

	database config.Database
}

func NewPurgeDeletedCommand(cfg config.Database) *PurgeDeletedCommand {
	return &PurgeDeletedCommand{database: cfg}
}

func (cmd *PurgeDeletedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("purge-deleted", flag.ContinueOnError)

	defaultPath := cmd.database.Path
	if defaultPath == "" {
		defaultPath = config.DefaultDatabasePath
	}
	fs.StringVar(&cmd.DatabasePath, "db", defaultPath, "Path to the sqlite database file")
	fs.DurationVar(&cmd.Retention, "retention", 24*time.Hour, "Only purge exercises deleted longer ago than this")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s purge-deleted [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Permanently remove exercises that were deleted through the web UI.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Purge everything deleted more than a week ago:\n")
		fmt.Fprintf(os.Stderr, "  %s purge-deleted -retention 168h\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Retention < 0 {
		return fmt.Errorf("retention must not be negative, got %s", cmd.Retention)
	}
	cmd.database.Path = cmd.DatabasePath
	if cmd.database.Driver == "" {
		cmd.database.Driver = config.DatabaseDriverSQLite
	}

	return nil
}

func (cmd *PurgeDeletedCommand) Run() error {
	db, err := database.Open(cmd.database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	purged, err := tasks.PurgeDeletedExercises(context.Background(), exercises.NewRepository(db.DB), tasks.PurgeDeletedExercisesTask{
		Retention: cmd.Retention,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Purged %d deleted exercise(s)\n", purged)
	return nil
}
