package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
)

const day = 24 * time.Hour

// Duration is a config duration written as text, e.g. "30s", "1h30m" or "7d".
type Duration struct {
	time.Duration `validate:"required"`
}

// NewDuration returns Duration wrapper
func NewDuration(duration time.Duration) Duration {
	return Duration{duration}
}

// ParseDuration extends time.ParseDuration with a whole-day "d" suffix.
func ParseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseUint(days, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: day count must be a whole number", s)
		}
		return time.Duration(n) * day, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

func (d *Duration) UnmarshalText(data []byte) error {
	parsed, err := ParseDuration(strings.TrimSpace(string(data)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	if d.Duration > 0 && d.Duration%day == 0 {
		return []byte(strconv.FormatInt(int64(d.Duration/day), 10) + "d"), nil
	}
	return []byte(d.String()), nil
}

// JSONSchema returns a custom schema to be used for the JSON Schema generation of this type
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Title:       "Duration",
		Description: "Duration expressed in units: [ns, us, ms, s, m, h] or whole days as Nd",
		Pattern:     `^([0-9]+d|([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+)$`,
		Examples: []any{
			"2s",
			"30m",
			"7d",
		},
	}
}
