package pip

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSupported means the device lacks picture-in-picture. Not retryable
	// without a capability change.
	ErrNotSupported = errors.New("PiP is not supported on this device")

	// ErrNotConfigured means Start was called before a successful Configure.
	ErrNotConfigured = errors.New("PiP is not configured yet")

	// ErrConfiguring is returned by Start while Configure is in flight. It
	// matches ErrNotConfigured under errors.Is.
	ErrConfiguring = fmt.Errorf("%w: configuration in progress", ErrNotConfigured)
)

// ConfigurationError reports a failed resource acquisition. Retry by calling Configure again.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "failed to configure PiP: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Error codes reported to the shell, matching the native module.
const (
	CodeNotSupported  = "PIP_NOT_SUPPORTED"
	CodeConfigError   = "PIP_CONFIG_ERROR"
	CodeNotConfigured = "PIP_NOT_CONFIGURED"
	CodeUnknown       = "PIP_UNKNOWN"
)

// Code maps an error returned by the Coordinator to its stable code.
// It returns "" for a nil error.
func Code(err error) string {
	var cfgErr *ConfigurationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotSupported):
		return CodeNotSupported
	case errors.As(err, &cfgErr):
		return CodeConfigError
	case errors.Is(err, ErrNotConfigured):
		return CodeNotConfigured
	default:
		return CodeUnknown
	}
}
