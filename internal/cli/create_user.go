package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/gymlife/internal/auth"
	"github.com/mrlokans/gymlife/internal/config"
	"github.com/mrlokans/gymlife/internal/database"
	"github.com/mrlokans/gymlife/internal/database/users"
)

// CreateUserCommand registers an account from the command line, applying the
// same validation as the register page.
type CreateUserCommand struct {
	DatabasePath string
	UserName     string
	Password     string

	config *config.Config
}

func NewCreateUserCommand(cfg *config.Config) *CreateUserCommand {
	return &CreateUserCommand{config: cfg}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)

	defaultPath := cmd.config.Database.Path
	if defaultPath == "" {
		defaultPath = config.DefaultDatabasePath
	}
	fs.StringVar(&cmd.DatabasePath, "db", defaultPath, "Path to the sqlite database file")
	fs.StringVar(&cmd.UserName, "username", "", "Account name (required)")
	fs.StringVar(&cmd.Password, "password", os.Getenv("GYMLIFE_PASSWORD"), "Account password (defaults to $GYMLIFE_PASSWORD)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an account without going through the register page.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.UserName == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	if cmd.Password == "" {
		return fmt.Errorf("required flag -password not provided")
	}
	cmd.config.Database.Path = cmd.DatabasePath

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := database.Open(cmd.config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), cmd.config.Auth)
	user, err := service.Register(context.Background(), cmd.UserName, cmd.Password)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s\n", user.UserName)
	return nil
}
