package cmd

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openBrowser opens a URL or local file in the OS default browser.
func openBrowser(target string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}

	// We use Start() to detach the process so dandiscope can exit while the browser stays open
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open '%s': %w", target, err)
	}

	return nil
}
