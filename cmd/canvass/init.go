package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/civistack/canvass/internal/infrastructure/archive/sqlite"
	"github.com/civistack/canvass/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new canvass workspace",
		Long:  "Creates a .canvass directory with default configuration and an empty snapshot archive.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("canvass already initialized in %s", cwd)
	}

	if err := config.WriteDefault(cwd); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	fmt.Printf("Created %s\n", config.ConfigFilePath(cwd))

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	archive, err := sqlite.NewRepository(cfg.ArchivePath(cwd))
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer archive.Close()

	if err := archive.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("creating archive schema: %w", err)
	}

	fmt.Printf("Created snapshot archive: %s\n", cfg.ArchivePath(cwd))
	fmt.Println("Canvass initialized successfully!")

	return nil
}
