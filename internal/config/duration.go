package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDurationFlexible accepts "90s"/"2m" strings, plain seconds as string or number,
// and time.Duration. Unset values yield def; invalid ones yield def and an error.
func parseDurationFlexible(raw any, def time.Duration) (time.Duration, error) {
	var d time.Duration
	switch t := raw.(type) {
	case time.Duration:
		d = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return def, nil
		}
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			n, convErr := strconv.ParseInt(s, 10, 64)
			if convErr != nil {
				return def, fmt.Errorf("cannot parse duration %q", s)
			}
			d = time.Duration(n) * time.Second
		}
	case int:
		d = time.Duration(t) * time.Second
	case int64:
		d = time.Duration(t) * time.Second
	case float64:
		d = time.Duration(t * float64(time.Second))
	default:
		return def, nil
	}
	if d <= 0 {
		return def, fmt.Errorf("duration must be >0")
	}
	return d, nil
}
