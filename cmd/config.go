package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/chanplot/pkg/config"
	"github.com/kamal-hamza/chanplot/pkg/ui"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the chanplot configuration file",
	Long: `Manage the chanplot configuration file.

Without a subcommand the config file is opened in $EDITOR.`,
	RunE: runConfigEdit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configPath)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(redacted(appConfig))
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
		}

		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatSuccess("Config written to "+configPath))
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatInfo("Run 'chanplot track <guild-id>' to pick channels"))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	// Ensure it exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s (run 'chanplot config init')", configPath)
	}

	fmt.Println(ui.FormatInfo("Opening config: " + configPath))

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	c := exec.Command(editor, configPath)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

// redacted returns a copy of cfg that is safe to print
func redacted(cfg *config.Config) config.Config {
	out := *cfg
	if out.Token != "" {
		out.Token = "********"
	}
	return out
}
