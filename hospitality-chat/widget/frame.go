package widget

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingMarker is returned when an inbound frame lacks the start or end
// delimiter around its JSON payload.
var ErrMissingMarker = errors.New("frame marker not found")

// Framer converts between raw websocket frames and messages.
// All knowledge of the wire framing lives behind this interface.
type Framer interface {
	Decode(frame []byte) (Message, error)
	Encode(out Outbound) ([]byte, error)
}

// DelimitedFramer reads inbound JSON embedded between two literal tokens and
// writes outbound frames as bare JSON.
type DelimitedFramer struct {
	Start string
	End   string
}

// DefaultFramer matches the upstream backend: JSONSTART{...}JSONEND.
var DefaultFramer = DelimitedFramer{Start: "JSONSTART", End: "JSONEND"}

// Extract returns the text between the first Start token and the last End
// token that follows it.
func (f DelimitedFramer) Extract(frame string) (string, error) {
	start := strings.Index(frame, f.Start)
	if start < 0 {
		return "", fmt.Errorf("%w: %q", ErrMissingMarker, f.Start)
	}
	rest := frame[start+len(f.Start):]
	end := strings.LastIndex(rest, f.End)
	if end < 0 {
		return "", fmt.Errorf("%w: %q", ErrMissingMarker, f.End)
	}
	return rest[:end], nil
}

func (f DelimitedFramer) Decode(frame []byte) (Message, error) {
	payload, err := f.Extract(string(frame))
	if err != nil {
		return Message{}, err
	}
	var m Message
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return Message{}, fmt.Errorf("decode frame: %w", err)
	}
	return m, nil
}

func (f DelimitedFramer) Encode(out Outbound) ([]byte, error) {
	return marshalCompact(out)
}

// Wrap embeds an already-encoded message between the delimiters. The demo
// server uses it to speak the same protocol the client decodes.
func (f DelimitedFramer) Wrap(m Message) ([]byte, error) {
	body, err := marshalCompact(m)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(f.Start)+len(body)+len(f.End))
	out = append(out, f.Start...)
	out = append(out, body...)
	out = append(out, f.End...)
	return out, nil
}
