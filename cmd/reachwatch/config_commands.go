package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reachwatch/internal/config"
)

var skipConfigLoad = map[string]string{"skipConfigLoad": "true"}

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the reachwatch configuration",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand())
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var pathFlag string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write the sample configuration",
		Args:        cobra.MaximumNArgs(1),
		Annotations: skipConfigLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			requested := pathFlag
			if len(args) == 1 {
				requested = args[0]
			}
			target, err := initTarget(requested)
			if err != nil {
				return err
			}
			if err := refuseExisting(target, overwrite); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set storefront.csrf_token (or export CSRF_TOKEN) before running reachwatch.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&pathFlag, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// initTarget resolves where config init writes; blank means the default
// location under ~/.config.
func initTarget(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("default config path: %w", err)
		}
		return path, nil
	}
	path, err := config.ExpandPath(requested)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", requested, err)
	}
	return path, nil
}

func refuseExisting(target string, overwrite bool) error {
	if overwrite {
		return nil
	}
	_, err := os.Stat(target)
	switch {
	case err == nil:
		return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("check %s: %w", target, err)
	}
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report the effective settings",
		Args:        cobra.NoArgs,
		Annotations: skipConfigLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, resolved, exists, err := config.Load(strings.TrimSpace(path))
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			source := resolved
			if !exists {
				source += " (missing, defaults used)"
			}
			rows := [][]string{
				{"config", source},
				{"selection", cfg.Selection.Mode},
				{"work_dir", cfg.Paths.WorkDir},
				{"lock", cfg.LockPath()},
				{"csrf_token", yesNo(cfg.Storefront.CSRFToken != "")},
			}
			out := cmd.OutOrStdout()
			writeTable(out, []string{"Setting", "Value"}, rows, nil)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
