package widget

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
)

// TerminalRenderer draws the message list on an ANSI terminal.
type TerminalRenderer struct {
	w          *bufio.Writer
	md         *glamour.TermRenderer
	width      int
	TimeLayout string
}

// NewTerminalRenderer renders markdown with glamour using style, one of
// glamour's standard style names ("auto" picks dark or light).
func NewTerminalRenderer(w io.Writer, width int, style string) (*TerminalRenderer, error) {
	if width <= 0 {
		width = 80
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	md, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width-4))
	if err != nil {
		return nil, fmt.Errorf("new markdown renderer: %w", err)
	}
	return &TerminalRenderer{w: bufio.NewWriter(w), md: md, width: width, TimeLayout: DefaultTimeLayout}, nil
}

func (r *TerminalRenderer) Marker(at time.Time) error {
	label := at.Local().Format(r.TimeLayout)
	_, err := fmt.Fprintf(r.w, "\n%s%s%s%s\n", strings.Repeat(" ", padding(r.width, label)/2), ansiDim, label, ansiReset)
	return err
}

func (r *TerminalRenderer) ServerMessage(role, initials string, g Gradient, md string) error {
	body, err := r.md.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	if _, err := fmt.Fprintf(r.w, "%s %s%s%s\n", avatar(initials, g), ansiBold, role, ansiReset); err != nil {
		return err
	}
	_, err = io.WriteString(r.w, strings.TrimRight(body, "\n")+"\n")
	return err
}

// UserMessage right-aligns each line of text by its display width.
func (r *TerminalRenderer) UserMessage(text string) error {
	for _, line := range strings.Split(text+" ◂", "\n") {
		if _, err := fmt.Fprintf(r.w, "%s%s\n", strings.Repeat(" ", padding(r.width, line)), line); err != nil {
			return err
		}
	}
	return nil
}

// padding is the number of cells left on a width-wide line after s.
func padding(width int, s string) int {
	if n := width - runewidth.StringWidth(s); n > 0 {
		return n
	}
	return 0
}

func (r *TerminalRenderer) Flush() error {
	return r.w.Flush()
}

// avatar paints the initials on a two-cell gradient: the left half with the
// first color stop, the right half with the second.
func avatar(initials string, g Gradient) string {
	cells := []rune(" " + initials + " ")
	if len(cells) < 4 {
		cells = append(cells, ' ')
	}
	half := len(cells) / 2
	return paint(string(cells[:half]), g.From) + paint(string(cells[half:]), g.To) + ansiReset
}

func paint(s, hex string) string {
	r, g, b := rgb(hex)
	fg := "38;2;255;255;255"
	// Rec. 601 luma; dark text on light stops.
	if 299*int(r)+587*int(g)+114*int(b) > 150000 {
		fg = "38;2;0;0;0"
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm\x1b[%sm%s", r, g, b, fg, s)
}
