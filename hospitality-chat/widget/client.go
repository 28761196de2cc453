package widget

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingInterval    = 30 * time.Second
	frameBufferSize = 64
	maxFrameSize    = 1 << 20
)

// ErrClosed is returned by Submit once Run has returned.
var ErrClosed = errors.New("chat client closed")

// Config describes how a Client connects and where it draws.
type Config struct {
	URL        string
	Renderer   Renderer
	Framer     Framer      // DefaultFramer when nil
	Transcript *Transcript // optional
	Dialer     *websocket.Dialer
	Header     http.Header
	Now        func() time.Time
}

type submission struct {
	text string
	done chan error
}

// Client owns the single websocket connection of a chat session. Inbound
// frames, submits and keepalive pings are all handled on the goroutine that
// calls Run, so the Session state is never touched concurrently.
type Client struct {
	conn       *websocket.Conn
	session    *Session
	framer     Framer
	render     Renderer
	transcript *Transcript
	now        func() time.Time

	submits chan submission
	done    chan struct{}
	readErr error
}

// Dial opens the websocket connection. It does not retry.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Renderer == nil {
		return nil, errors.New("chat client: renderer is required")
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, cfg.URL, cfg.Header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}
	return newClient(conn, cfg), nil
}

func newClient(conn *websocket.Conn, cfg Config) *Client {
	c := &Client{
		conn:       conn,
		session:    NewSession(),
		framer:     cfg.Framer,
		render:     cfg.Renderer,
		transcript: cfg.Transcript,
		now:        cfg.Now,
		submits:    make(chan submission),
		done:       make(chan struct{}),
	}
	if c.framer == nil {
		c.framer = DefaultFramer
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Replay redraws stored history before Run starts, advancing the marker
// state exactly as the live messages did.
func (c *Client) Replay(records []Record) error {
	for _, r := range records {
		var plan []Instruction
		switch r.Dir {
		case DirOutbound:
			_, plan = c.session.Outbound(r.Message.Content, time.Unix(int64(r.Message.Timestamp), 0))
		default:
			plan = c.session.Inbound(r.Message)
		}
		if err := Apply(c.render, plan); err != nil {
			return err
		}
	}
	return nil
}

// Submit sends the field's text upstream and clears the field once the frame
// is written. Blank input is ignored.
func (c *Client) Submit(ctx context.Context, field *InputField) error {
	text := field.Value()
	if blank(text) {
		field.Clear()
		return nil
	}
	sub := submission{text: text, done: make(chan error, 1)}
	select {
	case c.submits <- sub:
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-sub.done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	field.Clear()
	return nil
}

// Run processes events until ctx is cancelled or the connection fails. A
// normal close from the server returns nil.
func (c *Client) Run(ctx context.Context) error {
	defer close(c.done)
	frames := make(chan []byte, frameBufferSize)
	go c.readLoop(frames)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = c.conn.Close()
			return nil
		case frame, ok := <-frames:
			if !ok {
				_ = c.conn.Close()
				return c.readErr
			}
			c.handleFrame(frame)
		case sub := <-c.submits:
			sub.done <- c.handleSubmit(sub.text)
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.conn.Close()
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}

// readLoop feeds text frames to Run and closes frames when the connection ends.
func (c *Client) readLoop(frames chan<- []byte) {
	defer close(frames)
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		typ, payload, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.readErr = fmt.Errorf("read frame: %w", err)
			}
			log.Debug().Err(err).Msg("[chat] read loop stopped")
			return
		}
		if typ != websocket.TextMessage {
			continue
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		select {
		case frames <- payload:
		case <-c.done:
			return
		}
	}
}

// handleFrame renders one inbound frame. A bad frame is logged and skipped;
// it never stops the session.
func (c *Client) handleFrame(frame []byte) {
	m, err := c.framer.Decode(frame)
	if err != nil {
		log.Warn().Err(err).Int("bytes", len(frame)).Msg("[chat] dropped inbound frame")
		return
	}
	if err := Apply(c.render, c.session.Inbound(m)); err != nil {
		log.Warn().Err(err).Msg("[chat] render inbound message")
	}
	if err := c.transcript.Append(Record{Dir: DirInbound, Message: m}); err != nil {
		log.Debug().Err(err).Msg("[chat] persist inbound message")
	}
}

// handleSubmit writes the frame first and only then draws the echo, so a
// failed send leaves neither a user node nor an advanced marker behind.
func (c *Client) handleSubmit(text string) error {
	prev := c.session.marker
	out, plan := c.session.Outbound(text, c.now())
	payload, err := c.framer.Encode(out)
	if err != nil {
		c.session.marker = prev
		return fmt.Errorf("encode message: %w", err)
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.session.marker = prev
		return fmt.Errorf("send message: %w", err)
	}
	if err := Apply(c.render, plan); err != nil {
		log.Warn().Err(err).Msg("[chat] render user message")
	}
	if err := c.transcript.Append(Record{Dir: DirOutbound, Message: Message{Content: out.Content, Timestamp: Epoch(out.Timestamp)}}); err != nil {
		log.Debug().Err(err).Msg("[chat] persist outbound message")
	}
	return nil
}
