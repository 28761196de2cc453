package widget

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
)

// recorder keeps a flat log of every node it is asked to draw.
type recorder struct {
	nodes []string
	fail  error
}

func (r *recorder) Marker(at time.Time) error {
	r.nodes = append(r.nodes, fmt.Sprintf("marker %d", at.Unix()))
	return r.fail
}

func (r *recorder) ServerMessage(role, initials string, g Gradient, md string) error {
	r.nodes = append(r.nodes, fmt.Sprintf("server %s %s %s", initials, role, md))
	return r.fail
}

func (r *recorder) UserMessage(text string) error {
	r.nodes = append(r.nodes, "user "+text)
	return r.fail
}

func (r *recorder) Flush() error {
	r.nodes = append(r.nodes, "scroll")
	return r.fail
}

func TestApply(t *testing.T) {
	s := NewSession()
	rec := &recorder{}
	if err := Apply(rec, s.Inbound(Message{Content: "hi", Timestamp: 1000, Role: "Front Desk"})); err != nil {
		t.Fatal(err)
	}
	want := []string{"marker 1000", "server FD Front Desk hi", "scroll"}
	if strings.Join(rec.nodes, "|") != strings.Join(want, "|") {
		t.Errorf("nodes = %q, want %q", rec.nodes, want)
	}
}

func TestApplyStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{fail: boom}
	err := Apply(rec, []Instruction{{Kind: KindUserMessage, Content: "a"}, {Kind: KindScroll}})
	if !errors.Is(err, boom) {
		t.Fatalf("Apply() error = %v, want %v", err, boom)
	}
	if len(rec.nodes) != 1 {
		t.Errorf("drew %d nodes after failure, want 1", len(rec.nodes))
	}
}

func TestMultiRenderer(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	if err := Apply(MultiRenderer{a, b}, []Instruction{{Kind: KindUserMessage, Content: "x"}}); err != nil {
		t.Fatal(err)
	}
	if len(a.nodes) != 1 || len(b.nodes) != 1 {
		t.Errorf("fan out: a=%q b=%q", a.nodes, b.nodes)
	}
}

func TestHTMLRendererServerMessage(t *testing.T) {
	var buf bytes.Buffer
	r := NewHTMLRenderer(&buf)
	g := GradientFor("Front Desk")
	if err := r.ServerMessage("Front Desk", "FD", g, "**Paris:**\n- Grand Victoria"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`<div class="message-wrapper">`,
		`<div class="icon" style="background: linear-gradient(135deg, #867BC1, #867BC2)">FD</div>`,
		`<div class="role">Front Desk</div>`,
		`<li class="server-message">`,
		`<strong>Paris:</strong>`,
		`<li>Grand Victoria</li>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHTMLRendererEscapes(t *testing.T) {
	var buf bytes.Buffer
	r := NewHTMLRenderer(&buf)
	if err := r.UserMessage("<b>bold</b> & **not markdown**"); err != nil {
		t.Fatal(err)
	}
	if err := r.ServerMessage("<script>", "<", GradientFor("x"), "<script>alert(1)</script>\n\n[x](javascript:alert(1))"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `<li class="user-message">&lt;b&gt;bold&lt;/b&gt; &amp; **not markdown**</li>`) {
		t.Errorf("user message not escaped as plain text:\n%s", out)
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, "javascript:") {
		t.Errorf("unsafe markup survived:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Errorf("raw html not shown as text:\n%s", out)
	}
}

func TestRenderMarkdownRawHTML(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"inline tag", "use <b> for bold", "<p>use &lt;b&gt; for bold</p>"},
		{"inline pair", "a <i>b</i> c", "<p>a &lt;i&gt;b&lt;/i&gt; c</p>"},
		{"block", "<div>\nhi\n</div>", "<p>&lt;div&gt;\nhi\n&lt;/div&gt;</p>"},
		{"markdown kept", "**bold** text", "<p><strong>bold</strong> text</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderMarkdown(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if strings.TrimSpace(got) != tt.want {
				t.Errorf("RenderMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHTMLRendererMarker(t *testing.T) {
	var buf bytes.Buffer
	r := NewHTMLRenderer(&buf)
	r.TimeLayout = "2006-01-02 15:04:05"
	at := time.Unix(1000, 0)
	if err := r.Marker(at); err != nil {
		t.Fatal(err)
	}
	want := `<div class="timestamp">` + at.Local().Format("2006-01-02 15:04:05") + "</div>\n"
	if buf.String() != want {
		t.Errorf("Marker() = %q, want %q", buf.String(), want)
	}
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func TestHTMLTranscriptPage(t *testing.T) {
	var buf bytes.Buffer
	tr, err := NewHTMLTranscript(nopCloser{&buf}, "session")
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.UserMessage("hi"); err != nil {
		t.Fatal(err)
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, id := range []string{`id="messages-container"`, `id="messages"`, `id="messageText"`} {
		if !strings.Contains(out, id) {
			t.Errorf("page missing %s", id)
		}
	}
	if strings.Index(out, `id="messages"`) > strings.Index(out, "user-message") {
		t.Error("message written outside the list")
	}
}

func TestTerminalRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewTerminalRenderer(&buf, 60, "notty")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.ServerMessage("Front Desk", "FD", GradientFor("Front Desk"), "Welcome to the hotel"); err != nil {
		t.Fatal(err)
	}
	if err := r.UserMessage("thanks"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatal("terminal output written before Flush")
	}
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"\x1b[48;2;134;123;193m", "m F", "mD ", "Front Desk", "Welcome", "thanks"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%q", want, out)
		}
	}
}

func TestAvatarSplitsStops(t *testing.T) {
	g := Gradient{From: "000000", To: "FFFFFF"}
	got := avatar("C", g)
	// " C" on black with white text, "  " on white with black text.
	want := "\x1b[48;2;0;0;0m\x1b[38;2;255;255;255m C" + "\x1b[48;2;255;255;255m\x1b[38;2;0;0;0m  " + ansiReset
	if got != want {
		t.Errorf("avatar() = %q, want %q", got, want)
	}
}

func TestTerminalUserMessageAlignsByDisplayWidth(t *testing.T) {
	const width = 24
	for _, text := range []string{"thanks", "호텔 예약", "ok 😀", "two\nlines"} {
		var buf bytes.Buffer
		r, err := NewTerminalRenderer(&buf, width, "notty")
		if err != nil {
			t.Fatal(err)
		}
		if err := r.UserMessage(text); err != nil {
			t.Fatal(err)
		}
		if err := r.Flush(); err != nil {
			t.Fatal(err)
		}
		for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
			if got := runewidth.StringWidth(line); got != width {
				t.Errorf("UserMessage(%q) line %q is %d cells wide, want %d", text, line, got, width)
			}
		}
	}
}
