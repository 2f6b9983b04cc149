package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/findradio/internal/config"
	"github.com/muurk/findradio/internal/discovery"
	"github.com/muurk/findradio/internal/oui"
	"github.com/muurk/findradio/internal/report"
)

var forceInit bool

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// resolveConfigPath returns --config or the per-user default
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the findradio configuration file",
	Long: `The configuration file supplies defaults for scan flags and extra
manufacturer labels keyed by OUI. Flags always override it.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the built-in defaults",
	Example: `  findradio config init
  findradio config init --config ./findradio.yaml --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	cfg := config.New()
	cfg.Scan = &config.ScanDefaults{
		Port:    discovery.DefaultPort,
		Timeout: discovery.DefaultTimeout,
		Buffer:  discovery.DefaultBufferSize,
		Format:  string(report.FormatText),
	}
	cfg.SetVendor(oui.Flexradio, "(Flexradio)")

	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
