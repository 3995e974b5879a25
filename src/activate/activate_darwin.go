//go:build darwin

package activate

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// activateByName uses `open -a`, which needs no automation permission prompt.
func activateByName(name string) error {
	if err := exec.Command("open", "-a", name).Start(); err != nil {
		return fmt.Errorf("open -a %q: %w", name, err)
	}
	return nil
}

// FrontAppName returns the name of the frontmost application, or "" when it
// cannot be determined.
func FrontAppName() string {
	cmd := exec.Command("osascript", "-e",
		`tell application "System Events" to get name of (first process whose frontmost is true)`)
	var out bytes.Buffer
	cmd.Stdout = &out

	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		return ""
	}
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out.String())
	case <-time.After(2 * time.Second):
		_ = cmd.Process.Kill()
		return ""
	}
}
