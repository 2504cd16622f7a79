package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/aiscan/internal/infrastructure/config"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an aiscan workspace in the current directory",
	Long: `Initialize an aiscan workspace in the current directory.

Creates the .aiscan/ directory with a default config.yaml. An initialized
workspace also records an audit trail and token usage for every scan run;
scanning without one works but records nothing.`,
	RunE: runInitCmd,
}

func init() {
	RootCmd.AddCommand(initCmd)
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	repo := storage.NewFilesystemRepository(root)
	if repo.IsInitialized() {
		fmt.Fprintln(cmd.OutOrStdout(), "Workspace already initialized.")
		return nil
	}

	if err := repo.Initialize(); err != nil {
		return fmt.Errorf("initialize workspace: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := config.Save(root, cfg); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized workspace in %s\n", storage.WorkspaceDir)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit .aiscan/config.yaml to set provider, model, and column overrides.")
	return nil
}
