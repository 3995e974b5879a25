//go:build darwin

package keepawake

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"
)

// caffeinateService shells out to caffeinate(8). The child is bound to our
// PID with -w so the assertion dies with the process even if Release is
// never reached (hard crash).
type caffeinateService struct {
	mu  sync.Mutex
	cmd *exec.Cmd
}

func newPlatformService() Service {
	return &caffeinateService{}
}

func (s *caffeinateService) Acquire(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd != nil {
		return fmt.Errorf("keep-awake already acquired")
	}

	cmd := exec.Command("caffeinate", "-dis", "-w", fmt.Sprint(os.Getpid()))
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawning caffeinate: %w", err)
	}
	s.cmd = cmd
	log.Printf("Keep-awake acquired via caffeinate pid=%d (%s)", cmd.Process.Pid, reason)
	return nil
}

func (s *caffeinateService) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil {
		return nil
	}
	cmd := s.cmd
	s.cmd = nil

	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("terminating caffeinate: %w", err)
	}
	_ = cmd.Wait()
	log.Printf("Keep-awake released")
	return nil
}

// platformPulse nudges the "user active" assertion so Touch Bar and UI idle
// timers reset even while no real input arrives.
func platformPulse() {
	_ = exec.Command("caffeinate", "-u", "-t", "2").Run()
}
