package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/connect-four/api"
	"github.com/wricardo/connect-four/game/config"
	"github.com/wricardo/connect-four/game/service"
	"github.com/wricardo/connect-four/game/session"
	"github.com/wricardo/connect-four/telemetry"
	"github.com/wricardo/connect-four/transport/console"
	"github.com/wricardo/connect-four/transport/mcp"
	"github.com/wricardo/connect-four/transport/tui"
	"github.com/wricardo/connect-four/transport/websocket"
)

const (
	Version = "1.0.0"
	AppName = "connectfour"

	shutdownTimeout = 10 * time.Second
)

// options are the command line values that shape the settings
type options struct {
	ConfigPath string
	ProfileDir string
	Profile    string
	Player1    *string
	Player2    *string
	ColumnBase *int
	WatchAddr  *string
}

// services bundles everything a front end runs against
type services struct {
	sessions *session.Manager
	hub      *websocket.Hub
	game     service.GameService
}

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "two-player Connect Four",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "player1",
				Usage:   "name of the player who moves first",
				Sources: cli.EnvVars("CONNECT4_PLAYER1"),
			},
			&cli.StringFlag{
				Name:    "player2",
				Usage:   "name of the player who moves second",
				Sources: cli.EnvVars("CONNECT4_PLAYER2"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a JSON settings file",
				Sources: cli.EnvVars("CONNECT4_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "profiles",
				Usage:   "directory of named settings profiles",
				Sources: cli.EnvVars("CONNECT4_PROFILE_DIR"),
			},
			&cli.StringFlag{
				Name:    "profile",
				Usage:   "settings profile to load from --profiles",
				Sources: cli.EnvVars("CONNECT4_PROFILE"),
			},
			&cli.IntFlag{
				Name:    "column-base",
				Usage:   "number players type for the leftmost column (0 or 1)",
				Sources: cli.EnvVars("CONNECT4_COLUMN_BASE"),
			},
			&cli.StringFlag{
				Name:    "watch-addr",
				Usage:   "serve spectator HTTP and WebSocket endpoints on this address",
				Sources: cli.EnvVars("CONNECT4_WATCH_ADDR"),
			},
			&cli.BoolFlag{
				Name:  "ngrok",
				Usage: "also expose the spectator server through an ngrok tunnel",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "write logs to stderr",
				Sources: cli.EnvVars("CONNECT4_DEBUG"),
			},
		},
		Action: runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "play in the console, one line per move",
				Action: runPlay,
			},
			{
				Name:   "tui",
				Usage:  "play in a full-screen terminal",
				Action: runTUI,
			},
			{
				Name:   "mcp",
				Usage:  "serve games as MCP tools over stdio",
				Action: runMCP,
			},
			{
				Name:   "profiles",
				Usage:  "list settings profiles in --profiles",
				Action: runProfiles,
			},
		},
	}
}

func optionsFromCommand(cmd *cli.Command) options {
	opts := options{
		ConfigPath: cmd.String("config"),
		ProfileDir: cmd.String("profiles"),
		Profile:    cmd.String("profile"),
	}
	if cmd.IsSet("player1") {
		v := cmd.String("player1")
		opts.Player1 = &v
	}
	if cmd.IsSet("player2") {
		v := cmd.String("player2")
		opts.Player2 = &v
	}
	if cmd.IsSet("column-base") {
		v := int(cmd.Int("column-base"))
		opts.ColumnBase = &v
	}
	if cmd.IsSet("watch-addr") {
		v := cmd.String("watch-addr")
		opts.WatchAddr = &v
	}
	return opts
}

// loadSettings starts from defaults, a settings file or a profile, then applies
// flag overrides
func loadSettings(opts options) (*config.Settings, error) {
	settings := config.Defaults()

	switch {
	case opts.ConfigPath != "":
		loaded, err := config.LoadFile(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
	case opts.ProfileDir != "":
		manager, err := config.NewManager(opts.ProfileDir)
		if err != nil {
			return nil, err
		}
		if opts.Profile != "" {
			loaded, err := manager.LoadProfile(opts.Profile)
			if err != nil {
				return nil, err
			}
			settings = loaded
		} else {
			settings = manager.GetDefault()
		}
	case opts.Profile != "":
		return nil, fmt.Errorf("%w: --profile requires --profiles", config.ErrInvalidConfig)
	}

	if opts.Player1 != nil {
		settings.Player1 = *opts.Player1
	}
	if opts.Player2 != nil {
		settings.Player2 = *opts.Player2
	}
	if opts.ColumnBase != nil {
		settings.ColumnBase = *opts.ColumnBase
	}
	if opts.WatchAddr != nil {
		settings.WatchAddr = *opts.WatchAddr
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// setupLogging keeps interactive front ends free of log noise unless debugging
func setupLogging(debug, interactive bool) {
	switch {
	case debug:
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	case interactive:
		log.SetOutput(io.Discard)
	default:
		log.SetOutput(os.Stderr)
	}
}

// initializeServices wires the session store, spectator hub and game service
func initializeServices() *services {
	sessions := session.NewManager()
	hub := websocket.NewHub()
	return &services{
		sessions: sessions,
		hub:      hub,
		game:     service.NewGameService(sessions, hub),
	}
}

// startRuntime prepares settings, telemetry and background workers for a command
// and returns the services plus a function that stops everything
func startRuntime(ctx context.Context, cmd *cli.Command, interactive bool) (context.Context, *config.Settings, *services, func(), error) {
	setupLogging(cmd.Bool("debug"), interactive)

	settings, err := loadSettings(optionsFromCommand(cmd))
	if err != nil {
		return nil, nil, nil, nil, err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	var shutdownTelemetry func(context.Context) error
	if telemetry.Enabled() {
		shutdownTelemetry, err = telemetry.Setup(ctx, Version, telemetry.GameAttributes(settings.ColumnBase, settings.Markers)...)
		if err != nil {
			log.Printf("Warning: telemetry disabled: %v", err)
			shutdownTelemetry = nil
		}
	}

	svcs := initializeServices()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		svcs.hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		sessionCleanupRoutine(ctx, svcs.game, time.Duration(settings.SessionTTL), time.Duration(settings.CleanupInterval))
	}()

	var watch *http.Server
	if settings.WatchAddr != "" {
		watch = newWatchServer(settings.WatchAddr, svcs)
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("Spectator server listening on %s", settings.WatchAddr)
			if err := watch.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Spectator server error: %v", err)
			}
		}()

		if cmd.Bool("ngrok") {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := runNgrokTunnel(ctx, watch.Handler); err != nil {
					log.Printf("Ngrok tunnel error: %v", err)
				}
			}()
		}
	}

	stop := func() {
		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()

		if watch != nil {
			if err := watch.Shutdown(shutdownCtx); err != nil {
				log.Printf("Spectator server shutdown error: %v", err)
			}
		}
		wg.Wait()

		if shutdownTelemetry != nil {
			if err := shutdownTelemetry(shutdownCtx); err != nil {
				log.Printf("Telemetry shutdown error: %v", err)
			}
		}
		log.Println("Shutdown complete")
	}

	return ctx, settings, svcs, stop, nil
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	ctx, settings, svcs, stop, err := startRuntime(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer stop()

	err = console.New(svcs.game, settings, os.Stdin, os.Stdout).Run(ctx, "")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	ctx, settings, svcs, stop, err := startRuntime(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer stop()

	screen, err := tui.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	var closeOnce sync.Once
	closeScreen := func() { closeOnce.Do(screen.Close) }

	// Closing the screen unblocks PollEvent so the loop can see the signal
	go func() {
		<-ctx.Done()
		closeScreen()
	}()

	err = tui.New(screen, svcs.game, settings).Run(ctx, "")
	closeScreen()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	_, settings, svcs, stop, err := startRuntime(ctx, cmd, false)
	if err != nil {
		return err
	}
	defer stop()

	log.Printf("Starting %s v%s MCP server on stdio", AppName, Version)
	return mcp.NewServer(svcs.game, settings, Version).ServeStdio()
}

func runProfiles(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("profiles")
	if dir == "" {
		return fmt.Errorf("%w: --profiles is required", config.ErrInvalidConfig)
	}
	return listProfiles(cmd.Root().Writer, dir)
}

func listProfiles(w io.Writer, dir string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	profiles, err := manager.ListProfiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintf(w, "No profiles in %s\n", dir)
		return nil
	}

	for _, p := range profiles {
		player1, player2 := p.Player1, p.Player2
		if player1 == "" {
			player1 = "-"
		}
		if player2 == "" {
			player2 = "-"
		}
		fmt.Fprintf(w, "%-16s %s vs %s (columns from %d)\n", p.ProfileID, player1, player2, p.ColumnBase)
	}
	return nil
}

// newWatchServer builds the read-only spectator server
func newWatchServer(addr string, svcs *services) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      api.NewServer(svcs.game, svcs.hub),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// runNgrokTunnel serves the spectator router on a public ngrok URL until ctx
// is done
func runNgrokTunnel(ctx context.Context, handler http.Handler) error {
	token := os.Getenv("NGROK_AUTHTOKEN")
	if token == "" {
		token = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if token == "" {
		return errors.New("NGROK_AUTHTOKEN is not set")
	}

	var tunnel ngrokConfig.Tunnel
	if domain := os.Getenv("NGROK_DOMAIN"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(token),
	)
	if err != nil {
		return fmt.Errorf("failed to start ngrok tunnel: %w", err)
	}
	log.Printf("Spectators can watch at %s", tun.URL())

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// sessionCleanupRoutine periodically removes games nobody has touched within ttl
func sessionCleanupRoutine(ctx context.Context, games service.GameService, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if cleaned := games.CleanupIdleGames(ctx, ttl); cleaned > 0 {
				log.Printf("Cleaned up %d expired sessions", cleaned)
			}
		}
	}
}
