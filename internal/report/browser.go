package report

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
)

// browserCommand returns the command that opens path with the desktop's
// default handler.
func browserCommand(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", path), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenInBrowser opens the given file in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	cmd, err := browserCommand(runtime.GOOS, absPath)
	if err != nil {
		return err
	}
	return cmd.Start()
}
