//go:build !darwin

package activate

// Other platforms rely on the initial focus click inside the capture region.
func activateByName(name string) error { return nil }

// FrontAppName is unavailable off darwin.
func FrontAppName() string { return "" }
