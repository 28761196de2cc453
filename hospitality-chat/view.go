package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/hospitality-toys/hospitality-chat/widget"
)

const maxQueryLen = 10000

// sanitizeQuery removes control characters and limits length.
// It preserves valid Unicode including emojis and CJK characters.
func sanitizeQuery(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	n := 0
	for _, r := range s {
		if n == maxQueryLen {
			break
		}
		if unicode.IsControl(r) && r != '\t' && r != '\n' {
			continue
		}
		if r == unicode.ReplacementChar {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return strings.TrimSpace(b.String())
}

// queryOf accepts the client's {"content":...} frame and falls back to the
// raw text for anything that is not JSON.
func queryOf(data []byte) string {
	var req struct {
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(data, &req); err == nil && req.Content != nil {
		return *req.Content
	}
	return string(data)
}

// backend answers hotel questions over websocket, one conversation per
// connection.
type backend struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]*sync.Mutex // per-connection write locks
	wg     sync.WaitGroup
	now    func() time.Time
	framer widget.DelimitedFramer
}

func newBackend() *backend {
	return &backend{
		conns:  map[*websocket.Conn]*sync.Mutex{},
		now:    time.Now,
		framer: widget.DefaultFramer,
	}
}

// closeAll force-closes all active websocket connections (used during shutdown).
func (b *backend) closeAll() {
	b.mu.Lock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(b.conns))
	for c, mu := range b.conns {
		conns[c] = mu
	}
	b.mu.Unlock()
	for c, mu := range conns {
		mu.Lock()
		_ = c.SetWriteDeadline(time.Now().Add(10 * time.Second))
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
		mu.Unlock()
	}
}

// wait blocks until all websocket handler goroutines have finished.
func (b *backend) wait() {
	b.wg.Wait()
}

func (b *backend) handleWS(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "uuid")
	upgrader := websocket.Upgrader{
		CheckOrigin:      func(r *http.Request) bool { return true },
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Info().Str("session", session).Msg("[chat] websocket opened")

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	mu := &sync.Mutex{}
	b.mu.Lock()
	b.conns[conn] = mu
	b.mu.Unlock()

	ticker := time.NewTicker(20 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				mu.Lock()
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					mu.Unlock()
					return
				}
				mu.Unlock()
			case <-done:
				return
			}
		}
	}()

	b.wg.Add(1)
	go func() {
		defer func() {
			ticker.Stop()
			close(done)
			b.mu.Lock()
			delete(b.conns, conn)
			b.mu.Unlock()
			mu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
			mu.Unlock()
			log.Info().Str("session", session).Msg("[chat] websocket closed")
			b.wg.Done()
		}()
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			typ, data, err := conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("session", session).Msg("[chat] read from client")
				return
			}
			if typ != websocket.TextMessage {
				continue
			}
			query := sanitizeQuery(queryOf(data))
			log.Debug().Str("session", session).Str("query", query).Msg("[chat] received")

			frame, err := b.framer.Wrap(widget.Message{
				Role:      "assistant",
				Content:   matchAnswer(query),
				Timestamp: widget.Epoch(b.now().Unix()),
			})
			if err != nil {
				log.Error().Err(err).Msg("[chat] encode reply")
				continue
			}
			mu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			err = conn.WriteMessage(websocket.TextMessage, frame)
			mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("session", session).Msg("[chat] send reply")
				return
			}
		}
	}()
}

// NewHandler builds the backend HTTP router (UI + health + websocket).
func NewHandler(b *backend) http.Handler {
	r := chi.NewRouter()
	r.Get("/", serveIndex)
	r.Handle("/static/*", staticHandler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws/{uuid}", b.handleWS)
	return r
}
