package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration 表示排版请求本身不合法（maxLines ≤ 0、宽度为负等）。
var ErrInvalidConfiguration = errors.New("layout: invalid configuration")

// ConfigError names the offending Request field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("layout: invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfiguration.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

func invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
