package config

import "fmt"

// ConfigurationError reports a malformed or incomplete module payload.
type ConfigurationError struct {
	Source string // "AURVO_MODULES", a file path, or "" for the payload itself
	Msg    string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := e.Msg
	if e.Source != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Source)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// StartupError is returned by Registry.Settings when the module catalog
// cannot be built. The process should not serve traffic after one.
type StartupError struct {
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("load module configuration: %v", e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// NotFoundError reports a slug that is not in the resolved catalog.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %q not found", e.Slug)
}
