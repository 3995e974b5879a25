//go:build windows

package keepawake

import (
	"fmt"
	"log"
	"sync"

	"golang.org/x/sys/windows"
)

const (
	esContinuous      = 0x80000000
	esSystemRequired  = 0x00000001
	esDisplayRequired = 0x00000002
)

var (
	kernel32                     = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadExecutionState  = kernel32.NewProc("SetThreadExecutionState")
)

// executionStateService uses SetThreadExecutionState to keep the system and
// display on while a capture runs.
type executionStateService struct {
	mu       sync.Mutex
	acquired bool
}

func newPlatformService() Service {
	return &executionStateService{}
}

func (s *executionStateService) Acquire(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.acquired {
		return fmt.Errorf("keep-awake already acquired")
	}
	ret, _, err := procSetThreadExecutionState.Call(esContinuous | esSystemRequired | esDisplayRequired)
	if ret == 0 {
		return fmt.Errorf("SetThreadExecutionState failed: %v", err)
	}
	s.acquired = true
	log.Printf("Keep-awake acquired via SetThreadExecutionState (%s)", reason)
	return nil
}

func (s *executionStateService) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acquired {
		return nil
	}
	s.acquired = false
	ret, _, err := procSetThreadExecutionState.Call(esContinuous)
	if ret == 0 {
		return fmt.Errorf("SetThreadExecutionState reset failed: %v", err)
	}
	log.Printf("Keep-awake released")
	return nil
}

func platformPulse() {
	// Re-asserting the continuous flags doubles as the liveness pulse.
	_, _, _ = procSetThreadExecutionState.Call(esContinuous | esSystemRequired | esDisplayRequired)
}
