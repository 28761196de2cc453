package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gosuda/hospitality-toys/hospitality-chat/widget"
)

// Upstream defaults of the hotel assistant backend.
const (
	defaultHost    = "0.0.0.0"
	defaultPort    = 8001
	defaultSession = "fdfb8545-c177-48a2-bdce-b06af2032092_test_poc"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Open the chat session in this terminal",
	RunE:  runConnect,
}

func init() {
	addConnectFlags(connectCmd)
}

func addConnectFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("host", defaultHost, "backend host")
	flags.Int("port", defaultPort, "backend port")
	flags.String("session", defaultSession, "session id appended to /ws/")
	flags.Bool("new-session", false, "start a fresh session with a random id")
	flags.String("url", "", "full websocket URL; overrides --host, --port and --session")
	flags.String("data-path", "", "optional directory to persist the transcript via PebbleDB")
	flags.Int("history", 100, "messages replayed from --data-path on start (0 = all)")
	flags.String("html-transcript", "", "also write the conversation as an HTML page to this file")
	flags.Int("width", 80, "terminal width used for wrapping")
	flags.String("style", "auto", "markdown style (auto, dark, light, notty)")
	flags.String("time-format", widget.DefaultTimeLayout, "Go time layout for timestamp markers")
}

// endpointURL builds ws://host:port/ws/<session>.
func endpointURL(host string, port int, session string) string {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/ws/" + session,
	}
	return u.String()
}

func runConnect(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionID := viper.GetString("session")
	if viper.GetBool("new-session") {
		sessionID = uuid.NewString()
	}
	endpoint := viper.GetString("url")
	if endpoint == "" {
		endpoint = endpointURL(viper.GetString("host"), viper.GetInt("port"), sessionID)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer rl.Close()

	term, err := widget.NewTerminalRenderer(rl.Stdout(), viper.GetInt("width"), viper.GetString("style"))
	if err != nil {
		return err
	}
	term.TimeLayout = viper.GetString("time-format")
	renderers := widget.MultiRenderer{term}

	if path := viper.GetString("html-transcript"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create html transcript: %w", err)
		}
		page, err := widget.NewHTMLTranscript(f, sessionID)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("write html transcript: %w", err)
		}
		page.TimeLayout = term.TimeLayout
		defer func() {
			if err := page.Close(); err != nil {
				log.Warn().Err(err).Msg("[chat] html transcript close error")
			}
		}()
		renderers = append(renderers, page)
	}

	// Optional: open persistent transcript and replay recent history
	var store *widget.Transcript
	if dir := viper.GetString("data-path"); dir != "" {
		s, err := widget.OpenTranscript(dir, sessionID)
		if err != nil {
			log.Warn().Err(err).Msg("[chat] open store failed; running in memory only")
		} else {
			store = s
			defer func() {
				if err := store.Close(); err != nil {
					log.Warn().Err(err).Msg("[chat] store close error")
				}
			}()
		}
	}

	client, err := widget.Dial(ctx, widget.Config{URL: endpoint, Renderer: renderers, Transcript: store})
	if err != nil {
		return err
	}
	log.Info().Str("url", endpoint).Msg("[chat] connected")

	if recs, err := store.LoadRecent(viper.GetInt("history")); err != nil {
		log.Warn().Err(err).Msg("[chat] load history failed")
	} else if len(recs) > 0 {
		if err := client.Replay(recs); err != nil {
			log.Warn().Err(err).Msg("[chat] replay history failed")
		}
		log.Debug().Msgf("[chat] replayed %d messages from store", len(recs))
	}

	go readInput(ctx, rl, client, stop)

	if err := client.Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("[chat] session closed")
	return nil
}

// readInput submits each entered line until EOF or an interrupt on an empty line.
func readInput(ctx context.Context, rl *readline.Instance, client *widget.Client, stop context.CancelFunc) {
	var field widget.InputField
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				stop()
				return
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			stop()
			return
		}
		if err != nil {
			log.Debug().Err(err).Msg("[chat] input closed")
			return
		}
		field.Set(line)
		if err := client.Submit(ctx, &field); err != nil {
			if errors.Is(err, widget.ErrClosed) || ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("[chat] send failed")
		}
	}
}
