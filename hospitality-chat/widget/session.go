package widget

import (
	"strings"
	"time"
)

// Kind tells a Renderer which node to append.
type Kind int

const (
	KindMarker Kind = iota
	KindServerMessage
	KindUserMessage
	KindScroll
)

func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindServerMessage:
		return "server-message"
	case KindUserMessage:
		return "user-message"
	case KindScroll:
		return "scroll"
	}
	return "unknown"
}

// Instruction is one render step. Only the fields relevant to Kind are set.
type Instruction struct {
	Kind     Kind
	At       time.Time // KindMarker
	Role     string    // KindServerMessage
	Initials string    // KindServerMessage
	Gradient Gradient  // KindServerMessage
	Content  string    // markdown for server messages, plain text for user messages
}

// Session decides what to render for each event. It holds the marker state
// that both inbound and outbound handling share and touches no I/O, so the
// same Session can be driven by a live connection or by a replayed transcript.
//
// A Session is not safe for concurrent use; Client owns it from a single goroutine.
type Session struct {
	marker MarkerState
}

func NewSession() *Session {
	return &Session{}
}

// Marker exposes the last displayed marker.
func (s *Session) Marker() (int64, bool) {
	return s.marker.Last()
}

// Inbound plans the nodes for a message received from upstream.
func (s *Session) Inbound(m Message) []Instruction {
	out := make([]Instruction, 0, 3)
	ts := int64(m.Timestamp)
	if s.marker.Advance(ts) {
		out = append(out, Instruction{Kind: KindMarker, At: time.Unix(ts, 0)})
	}
	out = append(out,
		Instruction{
			Kind:     KindServerMessage,
			Role:     m.Role,
			Initials: Initials(m.Role),
			Gradient: GradientFor(m.Role),
			Content:  m.Content,
		},
		Instruction{Kind: KindScroll},
	)
	return out
}

// Outbound plans the local echo for text typed at time at and returns the
// frame body to send. The marker policy is the same one Inbound applies.
func (s *Session) Outbound(text string, at time.Time) (Outbound, []Instruction) {
	ts := at.Unix()
	out := make([]Instruction, 0, 3)
	if s.marker.Advance(ts) {
		out = append(out, Instruction{Kind: KindMarker, At: time.Unix(ts, 0)})
	}
	out = append(out,
		Instruction{Kind: KindUserMessage, Content: text},
		Instruction{Kind: KindScroll},
	)
	return Outbound{Content: text, Timestamp: ts}, out
}

// InputField is the text box the user types into.
type InputField struct {
	value string
}

func (f *InputField) Set(s string) { f.value = s }
func (f *InputField) Value() string { return f.value }
func (f *InputField) Clear() { f.value = "" }

// blank reports whether s has nothing worth sending.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
