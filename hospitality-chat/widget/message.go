package widget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Message is one chat entry as it travels over the socket.
// Role is only set on inbound messages.
type Message struct {
	Content   string `json:"content"`
	Timestamp Epoch  `json:"timestamp"`
	Role      string `json:"role,omitempty"`
}

// Outbound is the frame body sent upstream when the user submits input.
// Field order matters: the server side expects {"content":...,"timestamp":...}.
type Outbound struct {
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Epoch is a timestamp in whole seconds since the Unix epoch.
// Zero means the sender did not provide one.
type Epoch int64

// UnmarshalJSON accepts any JSON number (fractional seconds are truncated)
// and treats null as a missing timestamp.
func (e *Epoch) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*e = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("timestamp %s is not a number", b)
	}
	*e = Epoch(int64(f))
	return nil
}

// marshalCompact encodes v without HTML escaping and without the trailing
// newline json.Encoder appends.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // keep <, >, & as typed
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
