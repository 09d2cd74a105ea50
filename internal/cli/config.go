package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/calperry/stride/internal/keyring"
	"github.com/calperry/stride/internal/storage"
)

type ConfigCmd struct {
	SetConnection   ConfigSetConnectionCmd   `cmd:"" help:"Store a database connection string in the OS keyring."`
	ClearConnection ConfigClearConnectionCmd `cmd:"" help:"Remove the database connection string from the OS keyring."`
	Status          ConfigStatusCmd          `cmd:"" help:"Show keyring availability and stored credentials."`
}

type ConfigSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring."`
}

func (cmd *ConfigSetConnectionCmd) Run(ctx *Context) error {
	if !strings.HasPrefix(cmd.ConnectionString, "postgres://") &&
		!strings.HasPrefix(cmd.ConnectionString, "postgresql://") &&
		!strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if storage.HasEmbeddedCredentials(cmd.ConnectionString) {
		// The keyring is encrypted, so embedded credentials are allowed
		// here even though they are rejected on the command line.
		fmt.Println("⚠️  Note: connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println("✓ Connection string stored successfully in OS keyring")
	fmt.Println("  You can now use stride with a bare postgres:// --storage value")
	return nil
}

type ConfigClearConnectionCmd struct{}

func (cmd *ConfigClearConnectionCmd) Run(ctx *Context) error {
	err := keyring.DeleteConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Println("✓ Connection string deleted from OS keyring")
	return nil
}

type ConfigStatusCmd struct{}

func (cmd *ConfigStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}

	fmt.Println("✓ OS keyring is available")
	_, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		fmt.Println("✓ Connection string is stored in keyring")
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No connection string stored in keyring")
	default:
		return fmt.Errorf("failed to read keyring: %w", err)
	}
	return nil
}
