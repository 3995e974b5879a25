//go:build !darwin && !windows

package keepawake

func newPlatformService() Service {
	return Noop{}
}

func platformPulse() {}
