package widget

// MarkerGap is the minimum distance in seconds between two displayed
// timestamp markers.
const MarkerGap = 300

// MarkerState remembers the timestamp of the last marker actually displayed.
// It is not the timestamp of the last message.
type MarkerState struct {
	last int64
}

// Last reports the last displayed marker, if any.
func (m *MarkerState) Last() (int64, bool) {
	return m.last, m.last != 0
}

// Advance decides whether a marker is shown for ts and records it when it is.
// A zero ts never shows a marker and leaves the state untouched.
func (m *MarkerState) Advance(ts int64) bool {
	if ts == 0 {
		return false
	}
	if m.last != 0 && ts-m.last < MarkerGap {
		return false
	}
	m.last = ts
	return true
}
