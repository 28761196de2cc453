package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gosuda.org/portal/portal/core/cryptoops"
	"gosuda.org/portal/sdk"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo hotel assistant backend",
	RunE:  runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.StringSlice("server-url", strings.Split(os.Getenv("RELAY"), ","), "relayserver base URL(s); repeat or comma-separated (from env RELAY if set)")
	flags.Int("port", defaultPort, "local HTTP port (negative to disable)")
	flags.String("name", "hospitality-chat", "backend display name on the relay")
	flags.String("cred-key", "", "optional credential key to use for the listener (base64 encoded)")
}

// relayServers flattens repeated and comma-separated --server-url values.
func relayServers(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, p := range strings.Split(r, ",") {
			if u := strings.TrimSpace(p); u != "" {
				out = append(out, u)
			}
		}
	}
	return out
}

func runServe(cmd *cobra.Command, args []string) error {
	// Cancellation context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := newBackend()
	handler := NewHandler(b)
	name := viper.GetString("name")
	port := viper.GetInt("port")

	// Shared credential across all relay listeners
	cred := sdk.NewCredential()
	if key := viper.GetString("cred-key"); key != "" {
		raw, err := base64.StdEncoding.DecodeString(key)
		if err != nil {
			return fmt.Errorf("decode cred key: %w", err)
		}
		c, err := cryptoops.NewCredentialFromPrivateKey(raw)
		if err != nil {
			return fmt.Errorf("new credential from private key: %w", err)
		}
		cred = c
	}

	var clients []*sdk.RDClient
	var listeners []net.Listener
	for _, u := range relayServers(viper.GetStringSlice("server-url")) {
		client, err := sdk.NewClient(func(c *sdk.RDClientConfig) { c.BootstrapServers = []string{u} })
		if err != nil {
			log.Error().Err(err).Str("url", u).Msg("new client failed")
			continue
		}
		clients = append(clients, client)
		ln, err := client.Listen(cred, name, []string{"http/1.1"})
		if err != nil {
			return fmt.Errorf("listen (%s): %w", u, err)
		}
		listeners = append(listeners, ln)
	}
	if len(listeners) == 0 && port < 0 {
		return fmt.Errorf("nothing to serve: no relay via --server-url/RELAY and local --port disabled")
	}

	for i, ln := range listeners {
		idx := i
		go func() {
			if err := http.Serve(ln, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
				log.Error().Err(err).Int("listener", idx).Msg("[chat] relay http error")
			}
		}()
	}

	var httpSrv *http.Server
	if port >= 0 {
		httpSrv = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: handler, ReadHeaderTimeout: 5 * time.Second, IdleTimeout: 60 * time.Second}
		log.Info().Msgf("[chat] serving locally at ws://127.0.0.1:%d/ws/{session}", port)
		go func() {
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn().Err(err).Msg("[chat] local http stopped")
				stop()
			}
		}()
	}

	// Wait for cancel, then release listeners and sessions
	<-ctx.Done()
	for _, ln := range listeners {
		_ = ln.Close()
	}
	for _, c := range clients {
		_ = c.Close()
	}
	b.closeAll()
	if httpSrv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("[chat] http server shutdown error")
		}
	}
	b.wait()
	log.Info().Msg("[chat] shutdown complete")
	return nil
}
