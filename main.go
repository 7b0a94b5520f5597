// Command monopoly runs the Monopoly game server.
//
// It supports two modes:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket
//     updates and an /mcp HTTP endpoint
//  2. "stdio-mcp" runs an MCP stdio server and starts an internal HTTP API
//     when no external one answers
//
// Settings come from the environment and an optional .env file. Flags
// override them per run.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/monopoly/api"
	"github.com/wricardo/mcp-training/monopoly/game/config"
	"github.com/wricardo/mcp-training/monopoly/game/service"
	"github.com/wricardo/mcp-training/monopoly/game/session"
	"github.com/wricardo/mcp-training/monopoly/logging"
	"github.com/wricardo/mcp-training/monopoly/settings"
	"github.com/wricardo/mcp-training/monopoly/transport/mcp"
	"github.com/wricardo/mcp-training/monopoly/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Monopoly Game Server"
)

const (
	cleanupInterval = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	s, err := settings.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "settings: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(s).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Flag defaults come from s.
func newApp(s *settings.Settings) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "host", Value: s.Host, Usage: "HTTP server host"},
		&cli.IntFlag{Name: "port", Value: s.Port, Usage: "HTTP server port"},
		&cli.StringFlag{Name: "config-dir", Value: s.ConfigDir, Usage: "directory containing rule configurations"},
		&cli.StringFlag{Name: "store", Value: s.SessionStore, Usage: "session store: memory, file, sqlite or redis"},
		&cli.StringFlag{Name: "log-level", Value: s.LogLevel, Usage: "log level"},
		&cli.BoolFlag{Name: "pretty", Value: s.LogPretty, Usage: "human readable logs"},
		&cli.BoolFlag{Name: "ngrok", Value: s.NgrokEnabled, Usage: "expose the server through an ngrok tunnel"},
		&cli.StringFlag{Name: "ngrok-domain", Value: s.NgrokDomain, Usage: "custom ngrok domain"},
	}

	serve := func(ctx context.Context, cmd *cli.Command) error {
		return runHTTPServer(ctx, applyFlags(cmd, s))
	}

	return &cli.Command{
		Name:    "monopoly",
		Usage:   AppName,
		Version: Version,
		Flags:   flags,
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server with REST API, WebSocket and MCP endpoint",
				Action: serve,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "run the MCP stdio server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStdioMCP(ctx, applyFlags(cmd, s))
				},
			},
		},
	}
}

// applyFlags returns a copy of s with the command line flags applied
func applyFlags(cmd *cli.Command, s *settings.Settings) *settings.Settings {
	out := *s
	out.Host = cmd.String("host")
	out.Port = int(cmd.Int("port"))
	out.ConfigDir = cmd.String("config-dir")
	out.SessionStore = cmd.String("store")
	out.LogLevel = cmd.String("log-level")
	out.LogPretty = cmd.Bool("pretty")
	out.NgrokEnabled = cmd.Bool("ngrok")
	out.NgrokDomain = cmd.String("ngrok-domain")
	return &out
}

// services holds the wired game stack of one process
type services struct {
	game     service.GameService
	sessions *session.Manager
	closer   io.Closer
}

func (s *services) Close() error {
	if err := s.sessions.SaveAllSessions(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// initializeServices wires config and session managers and the game service
func initializeServices(s *settings.Settings, logger zerolog.Logger, opts ...service.Option) (*services, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	configManager, err := config.NewManager(s.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := openPersistence(s, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionOpts := []session.Option{session.WithLogger(logger)}
	if persistence != nil {
		sessionOpts = append(sessionOpts, session.WithPersistence(persistence))
	}
	sessionManager := session.NewManager(sessionOpts...)

	if err := sessionManager.LoadPersistedSessions(); err != nil {
		logger.Warn().Err(err).Msg("failed to load persisted sessions")
	}

	opts = append([]service.Option{service.WithLogger(logger)}, opts...)
	svc := &services{
		game:     service.NewGameService(sessionManager, configManager, opts...),
		sessions: sessionManager,
	}
	if c, ok := persistence.(io.Closer); ok {
		svc.closer = c
	}

	logger.Info().
		Str("store", s.SessionStore).
		Str("config_dir", s.ConfigDir).
		Int("sessions", sessionManager.Count()).
		Msg("services initialized")
	return svc, nil
}

// openPersistence returns nil for the memory store
func openPersistence(s *settings.Settings, configs *config.Manager) (session.SessionPersistence, error) {
	switch s.SessionStore {
	case settings.StoreMemory:
		return nil, nil
	case settings.StoreFile:
		return session.NewFilePersistence(s.SessionsDir, configs)
	case settings.StoreSQLite:
		return session.OpenSQLitePersistence(s.SQLitePath, configs)
	case settings.StoreRedis:
		return session.NewRedisPersistence(session.NewRedisPool(s.RedisURL), configs, session.WithRedisTTL(s.SessionTTL))
	default:
		return nil, fmt.Errorf("unknown session store %q", s.SessionStore)
	}
}

// mcpHandler serves MCP JSON-RPC messages over plain HTTP POST
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter mounts the REST API, WebSocket and /mcp endpoint
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", mcpHandler(mcpClient))
	return router
}

// runHTTPServer serves until ctx is canceled, then shuts down gracefully
func runHTTPServer(ctx context.Context, s *settings.Settings) error {
	logger := logging.New(logging.Options{Level: s.LogLevel, Pretty: s.LogPretty})
	logger.Info().Str("version", Version).Msg("starting " + AppName)

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	svc, err := initializeServices(s, logger, service.WithNotifier(hub))
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close services")
		}
	}()

	go svc.sessions.RunCleanup(ctx, cleanupInterval, s.SessionTTL)

	addr := s.Addr()
	router := newRouter(api.NewServer(svc.game, hub, logger), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info().
			Str("addr", addr).
			Str("api", "http://"+addr+"/api").
			Str("ws", "ws://"+addr+"/ws?session=<session_id>").
			Str("mcp", "http://"+addr+"/mcp").
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if s.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, s, router, logger)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	logger.Info().Msg("server stopped")
	return nil
}

// runNgrok exposes handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, s *settings.Settings, handler http.Handler, logger zerolog.Logger) {
	if s.NgrokAuthToken == "" {
		logger.Warn().Msg("ngrok enabled but NGROK_AUTHTOKEN is not set")
		return
	}

	tunnel := ngrokConfig.HTTPEndpoint()
	if s.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(s.NgrokDomain))
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(s.NgrokAuthToken))
	if err != nil {
		logger.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	url := tun.URL()
	logger.Info().
		Str("url", url).
		Str("api", url+"/api").
		Str("mcp", url+"/mcp").
		Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error().Err(err).Msg("ngrok server error")
	}
	logger.Info().Msg("ngrok tunnel closed")
}

// externalAPIAvailable reports whether a game API already answers at baseURL
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server. It reuses a game API on the
// configured address, or starts an internal one on a loopback port.
func runStdioMCP(ctx context.Context, s *settings.Settings) error {
	// stdout belongs to the MCP protocol
	logger := logging.New(logging.Options{Level: s.LogLevel, Writer: os.Stderr})

	baseURL := "http://" + s.Addr()
	if externalAPIAvailable(ctx, baseURL) {
		logger.Info().Str("url", baseURL).Msg("using external API server")
	} else {
		internalURL, shutdown, err := startInternalAPI(ctx, s, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internalURL
	}

	logger.Info().Str("api", baseURL).Msg("MCP stdio server ready")
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// startInternalAPI serves the game API on a random loopback port
func startInternalAPI(ctx context.Context, s *settings.Settings, logger zerolog.Logger) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	svc, err := initializeServices(s, logger, service.WithNotifier(hub))
	if err != nil {
		listener.Close()
		return "", nil, err
	}

	httpServer := &http.Server{Handler: api.NewServer(svc.game, hub, logger)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("internal HTTP server error")
		}
	}()

	addr := listener.Addr().String()
	logger.Info().Str("addr", addr).Msg("internal HTTP server started")

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
		svc.Close()
	}
	return "http://" + addr, shutdown, nil
}
