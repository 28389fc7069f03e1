package clock

import "time"

const dateLayout = "2006-01-02"

// Today returns the current calendar date in UTC as YYYY-MM-DD.
// Daily quota windows are keyed by this value; the rollover happens when the
// UTC date changes, there is no timer involved.
func Today() string {
	return time.Now().UTC().Format(dateLayout)
}

// Now timestamp for api responses
func Now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
