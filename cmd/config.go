package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"dandiscope/pkg/ui"
)

var configInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the dandiscope configuration file",
	Long: `Open the configuration file in your editor.

With --init, write the default configuration first. Without a config
file every command runs on built-in defaults.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the default configuration first")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := appWorkspace.ConfigPath

	if configInit {
		if _, err := os.Stat(path); err == nil {
			fmt.Println(ui.FormatWarning("Config already exists at " + path))
		} else {
			if err := appConfig.Save(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Println(ui.FormatSuccess("Wrote default config to " + path))
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(ui.FormatWarning("No config file at " + path))
		fmt.Println(ui.FormatInfo("Run 'dandiscope config --init' to create one"))
		return nil
	}

	fmt.Println(ui.FormatInfo("Opening config: " + path))

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
