package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Duration wraps time.Duration for text unmarshaling (YAML, TOML, env vars).
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", text)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// MarshalJSON implements json.Marshaler, writing the duration as a string
// such as "2s".
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration().String())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Switch is a boolean that also accepts the shell-style spellings used by
// hook environments: 1/true/yes/on and 0/false/no/off, case-insensitive.
type Switch bool

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Switch) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "1", "true", "yes", "on":
		*s = true
	case "", "0", "false", "no", "off":
		*s = false
	default:
		return fmt.Errorf("invalid switch value: %q", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Switch) MarshalText() ([]byte, error) {
	if s {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// MarshalJSON writes the switch as a JSON boolean rather than its text form.
func (s Switch) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(s))
}

// Enabled reports whether the switch is on.
func (s Switch) Enabled() bool {
	return bool(s)
}
