// Command klondike runs the Klondike Solitaire engine.
//
// Subcommands:
//   - serve: HTTP server with the REST API, WebSocket updates and an /mcp endpoint
//   - mcp: MCP stdio server, backed by a running server or an internal one
//   - play: the text menu and interactive game on this terminal
//   - replay: run a command script and print the final board
//   - ssh: serve the text game to SSH clients
//   - watch: print game events published to NATS
//   - version
//
// Flags fall back to environment variables, then to the settings file in
// $XDG_CONFIG_HOME/klondike/config.toml.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/klondike/api"
	"github.com/wricardo/klondike/game/config"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
	"github.com/wricardo/klondike/game/session"
	"github.com/wricardo/klondike/transport/console"
	"github.com/wricardo/klondike/transport/mcp"
	natstransport "github.com/wricardo/klondike/transport/nats"
	"github.com/wricardo/klondike/transport/ssh"
	"github.com/wricardo/klondike/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Klondike Solitaire Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Printf("Warning: Failed to load settings, using defaults: %v", err)
		settings = config.DefaultSettings()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(settings).Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// newCommand builds the command tree. Flag defaults come from settings.
func newCommand(settings *config.Settings) *cli.Command {
	return &cli.Command{
		Name:    "klondike",
		Usage:   "Klondike Solitaire over HTTP, MCP, SSH and the terminal",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging", Sources: cli.EnvVars("KLONDIKE_DEBUG")},
			&cli.StringFlag{Name: "deals-dir", Value: settings.DealsDir, Usage: "directory of deal files", Sources: cli.EnvVars("KLONDIKE_DEALS_DIR")},
			&cli.StringFlag{Name: "sessions-dir", Value: settings.SessionsDir, Usage: "directory of saved sessions", Sources: cli.EnvVars("KLONDIKE_SESSIONS_DIR")},
			&cli.StringFlag{Name: "deal", Value: settings.DefaultDeal, Usage: "default deal for new games", Sources: cli.EnvVars("KLONDIKE_DEAL")},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server with REST API, WebSocket and MCP endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Value: settings.Host, Sources: cli.EnvVars("KLONDIKE_HOST")},
					&cli.IntFlag{Name: "port", Value: settings.Port, Sources: cli.EnvVars("KLONDIKE_PORT")},
					&cli.BoolFlag{Name: "ngrok", Usage: "expose the server through an ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
					&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
					&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
					&cli.StringFlag{Name: "nats-url", Value: settings.NATSURL, Usage: "publish game events to this NATS server", Sources: cli.EnvVars("NATS_URL")},
				},
				Action: runHTTPServer,
			},
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Value: settings.Host, Sources: cli.EnvVars("KLONDIKE_HOST")},
					&cli.IntFlag{Name: "port", Value: settings.Port, Usage: "port of an already running server", Sources: cli.EnvVars("KLONDIKE_PORT")},
				},
				Action: runStdioMCPWithInternalServer,
			},
			{
				Name:  "play",
				Usage: "play in this terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "color", Value: settings.Color, Usage: "auto, always or never", Sources: cli.EnvVars("KLONDIKE_COLOR")},
					&cli.StringFlag{Name: "log-file", Value: settings.LogFile, Sources: cli.EnvVars("KLONDIKE_LOG_FILE")},
					&cli.StringFlag{Name: "files-dir", Value: ".", Usage: "directory used by the save and load commands"},
					&cli.StringFlag{Name: "sample", Value: "samplegame.txt", Usage: "command script for the sample game"},
				},
				Action: runPlay,
			},
			{
				Name:      "replay",
				Usage:     "run a command script and print the final board",
				ArgsUsage: "<script>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "color", Value: console.ColorNever},
					&cli.StringFlag{Name: "save", Usage: "also write the final board to this .txt file"},
				},
				Action: runReplay,
			},
			{
				Name:  "ssh",
				Usage: "serve the terminal game over SSH",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: settings.SSHAddr, Sources: cli.EnvVars("KLONDIKE_SSH_ADDR")},
					&cli.StringFlag{Name: "host-key", Usage: "PEM host key; generated when empty", Sources: cli.EnvVars("KLONDIKE_SSH_HOST_KEY")},
					&cli.StringFlag{Name: "password", Usage: "require this password", Sources: cli.EnvVars("KLONDIKE_SSH_PASSWORD")},
					&cli.StringFlag{Name: "sample", Value: "samplegame.txt"},
				},
				Action: runSSHServer,
			},
			{
				Name:      "watch",
				Usage:     "print game events from NATS",
				ArgsUsage: "[session-id]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "nats-url", Value: settings.NATSURL, Sources: cli.EnvVars("NATS_URL")},
				},
				Action: runWatch,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintf(cmd.Root().Writer, "%s v%s\n", AppName, Version)
					return nil
				},
			},
		},
	}
}

// openDeals creates the deal manager and applies the --deal default.
func openDeals(cmd *cli.Command) (*config.Manager, error) {
	deals, err := config.NewManager(cmd.String("deals-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to create deal manager: %w", err)
	}
	if name := cmd.String("deal"); name != "" && name != config.DefaultDealName {
		if err := deals.SetDefault(name); err != nil {
			return nil, fmt.Errorf("failed to select deal %s: %w", name, err)
		}
	}
	return deals, nil
}

// initLog sends the standard logger to an append-only file so log lines do
// not land in the middle of the board.
func initLog(path, prefix string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetPrefix(prefix)
	return f, nil
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s", AppName, Version)

	hub := websocket.NewHub()
	go hub.Run()

	publishers := []service.EventPublisher{hub}
	if url := cmd.String("nats-url"); url != "" {
		nc, err := natstransport.BrokerConnect(url, AppName)
		if err != nil {
			log.Printf("Warning: Game events will not be published to NATS: %v", err)
		} else {
			defer nc.Drain()
			publishers = append(publishers, natstransport.NewPublisher(nc))
			log.Printf("Publishing game events to %s on %s", url, natstransport.Subject(""))
		}
	}

	deals, err := openDeals(cmd)
	if err != nil {
		return err
	}
	gameService, sessions, err := initializeServices(ctx, deals, cmd.String("sessions-dir"), publishers...)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if err := sessions.SaveAllSessions(); err != nil {
		log.Printf("Warning: Failed to save sessions on shutdown: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// mcpHandler answers JSON-RPC messages posted to /mcp.
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runNgrokTunnel serves handler through ngrok until ctx is done.
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires the session manager and the game service, and
// starts the background routines that prune stale sessions.
func initializeServices(ctx context.Context, deals *config.Manager, sessionsDir string, publishers ...service.EventPublisher) (service.GameService, *session.Manager, error) {
	persistence, err := session.NewFilePersistence(sessionsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	gameService := service.NewGameService(sessionManager, deals, publishers...)

	go sessionCleanupRoutine(ctx, sessionManager, time.Hour, 24*time.Hour)
	go filesystemSyncRoutine(ctx, sessionManager, persistence, 5*time.Second)

	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within maxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, every, maxAge time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine drops sessions from memory when their files have
// been deleted from the sessions directory.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pruned := 0
		for _, sess := range manager.List() {
			if !persistence.Exists(sess.ID) {
				if err := manager.DeleteFromMemory(sess.ID); err == nil {
					pruned++
					log.Printf("Pruned session %s from memory (file deleted)", sess.ID)
				}
			}
		}

		if pruned > 0 {
			log.Printf("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses a
// server already listening on --host/--port, or starts an internal API on a
// random loopback port.
func runStdioMCPWithInternalServer(ctx context.Context, cmd *cli.Command) error {
	externalURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), int(cmd.Int("port")))
	baseURL := externalURL
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		deals, err := openDeals(cmd)
		if err != nil {
			return err
		}
		hub := websocket.NewHub()
		go hub.Run()

		gameService, _, err := initializeServices(ctx, deals, cmd.String("sessions-dir"), hub)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", listener.Addr())

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runPlay runs the main menu on this terminal.
func runPlay(ctx context.Context, cmd *cli.Command) error {
	closer, err := initLog(cmd.String("log-file"), "[play] ")
	if err != nil {
		return err
	}
	defer closer.Close()

	deals, err := openDeals(cmd)
	if err != nil {
		return err
	}

	root := cmd.Root()
	c := console.New(root.Reader, console.NewRenderer(root.Writer, cmd.String("color")), console.Options{
		Deals:        deals,
		FileDir:      cmd.String("files-dir"),
		SampleScript: cmd.String("sample"),
	})
	return c.Run(ctx)
}

// runReplay plays a script file and prints the final board.
func runReplay(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errors.New("replay needs exactly one script file")
	}

	deals, err := openDeals(cmd)
	if err != nil {
		return err
	}

	script, err := os.Open(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer script.Close()

	root := cmd.Root()
	render := console.NewRenderer(root.Writer, cmd.String("color"))
	c := console.New(root.Reader, render, console.Options{Deals: deals})

	e, err := c.Replay(ctx, script)
	if err != nil {
		return err
	}
	render.Lines(engine.BoardLines(e.Board(), true))

	if path := cmd.String("save"); path != "" {
		if err := engine.SaveBoardFile(path, e.Board()); err != nil {
			return err
		}
	}
	if e.IsWon() {
		render.Notice("Won")
	}
	return nil
}

// runSSHServer serves one console game per SSH connection.
func runSSHServer(ctx context.Context, cmd *cli.Command) error {
	deals, err := openDeals(cmd)
	if err != nil {
		return err
	}

	srv, err := ssh.NewServer(ssh.Config{
		Addr:        cmd.String("addr"),
		HostKeyFile: cmd.String("host-key"),
		Password:    cmd.String("password"),
		Console: console.Options{
			Deals:        deals,
			SampleScript: cmd.String("sample"),
		},
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("SSH server failed: %w", err)
	}
	return nil
}

// runWatch prints events of one session, or all sessions, until interrupted.
func runWatch(ctx context.Context, cmd *cli.Command) error {
	nc, err := natstransport.BrokerConnect(cmd.String("nats-url"), AppName+" watcher")
	if err != nil {
		return err
	}
	defer nc.Close()

	out := cmd.Root().Writer
	var mu sync.Mutex
	sub, err := natstransport.Subscribe(nc, cmd.Args().First(), func(event service.GameEvent) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(out, formatEvent(event))
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	<-ctx.Done()
	return nil
}

func formatEvent(event service.GameEvent) string {
	line := fmt.Sprintf("%s [%s] %-15s %s", event.Timestamp.Format(time.TimeOnly), event.SessionID, event.Type, event.Message)
	if event.Cards > 0 {
		line += fmt.Sprintf(" (%d card(s))", event.Cards)
	}
	return line
}
