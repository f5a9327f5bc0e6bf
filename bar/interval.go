package bar

import (
	"strings"
	"time"
)

var intervalUnits = []struct {
	key  string
	secs int64
}{
	{"%d years", 365 * 86400},
	{"%d months", 30 * 86400},
	{"%d weeks", 7 * 86400},
	{"%d days", 86400},
	{"%d hours", 3600},
	{"%d min", 60},
	{"%d sec", 1},
}

// FormatInterval renders d with at most granularity units, largest first
// ("2 hours 5 min"). A unit that is skipped after the first emitted one still
// counts against granularity, so 1 day and 10 seconds with granularity 2 is "1 day".
func (e *Env) FormatInterval(d time.Duration, granularity int) string {
	if granularity <= 0 {
		granularity = 2
	}
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	var parts []string
	for _, u := range intervalUnits {
		if secs >= u.secs {
			parts = append(parts, e.T(u.key, int(secs/u.secs)))
			secs %= u.secs
			granularity--
		} else if len(parts) > 0 {
			granularity--
		}
		if granularity == 0 {
			break
		}
	}
	if len(parts) == 0 {
		return e.T("%d sec", 0)
	}
	return strings.Join(parts, " ")
}
