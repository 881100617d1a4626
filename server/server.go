package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/command"
	"github.com/Digital-Creators-Team/stakes-engine/config"
	"github.com/Digital-Creators-Team/stakes-engine/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// App serves the command surface over HTTP and WebSocket
type App struct {
	engine         *gin.Engine
	config         *config.Config
	logger         zerolog.Logger
	dispatcher     *command.Dispatcher
	httpServer     *http.Server
	onShutdown     []func()
	commandHandler *CommandHandler
	socketHandler  *SocketHandler
}

// Options holds server configuration options
type Options struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Dispatcher *command.Dispatcher
}

// New creates a new application around a dispatcher
func New(opts Options) *App {
	if opts.Config.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		engine:     gin.New(),
		config:     opts.Config,
		logger:     opts.Logger,
		dispatcher: opts.Dispatcher,
	}
	app.commandHandler = NewCommandHandler(app)
	app.socketHandler = NewSocketHandler(app)
	return app
}

// UseCommonMiddlewares adds common middlewares to the application
func (a *App) UseCommonMiddlewares() {
	// Recovery must be first
	a.engine.Use(middleware.Recovery(a.logger))
	a.engine.Use(middleware.TraceID())
	a.engine.Use(middleware.Session())
	a.engine.Use(middleware.Logging(a.logger))

	if a.config.Server.EnableCORS {
		a.engine.Use(middleware.CORS())
	}
}

// UseMiddleware adds a custom middleware
func (a *App) UseMiddleware(m gin.HandlerFunc) {
	a.engine.Use(m)
}

// Dispatcher returns the dispatcher commands run through
func (a *App) Dispatcher() *command.Dispatcher {
	return a.dispatcher
}

// RegisterHealthCheck adds health check endpoints
func (a *App) RegisterHealthCheck() {
	a.engine.GET("/health", a.healthCheck)
	a.engine.GET("/api/health", a.healthCheck)
}

func (a *App) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   a.config.Environment,
	})
}

// RegisterCommandRoutes registers the game API.
//
// Routes registered:
//   - POST /api/accounts                 -> CommandHandler.CreateAccount
//   - GET  /api/accounts/:username       -> CommandHandler.GetAccount
//   - POST /api/commands                 -> CommandHandler.Execute (X-Username header)
//   - GET  /api/commands/ws?username=... -> SocketHandler.Serve
//   - GET  /api/leaderboard?category=... -> CommandHandler.Leaderboard
func (a *App) RegisterCommandRoutes() {
	api := a.engine.Group("/api")
	{
		api.POST("/accounts", a.commandHandler.CreateAccount)
		api.GET("/accounts/:username", a.commandHandler.GetAccount)
		api.GET("/leaderboard", a.commandHandler.Leaderboard)

		commands := api.Group("/commands")
		commands.GET("/ws", a.CommandContextMiddleware(), a.socketHandler.Serve)
		commands.POST("", middleware.Timeout(a.config.Server.CommandTimeout), a.CommandContextMiddleware(), a.commandHandler.Execute)
	}

	a.logger.Info().Msg("Command routes registered: /api")
}

// Router returns the Gin engine for custom route registration
func (a *App) Router() *gin.Engine {
	return a.engine
}

// OnShutdown registers a function to be called on shutdown
func (a *App) OnShutdown(fn func()) {
	a.onShutdown = append(a.onShutdown, fn)
}

func (a *App) newHTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.engine,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunWithContext(ctx)
}

// RunWithContext starts the HTTP server and shuts it down when ctx ends
func (a *App) RunWithContext(ctx context.Context) error {
	a.httpServer = a.newHTTPServer()

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info().
			Int("port", a.config.Server.Port).
			Str("environment", a.config.Environment).
			Msg("Starting HTTP server")

		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return a.shutdown()
	case err := <-errChan:
		return err
	}
}

func (a *App) shutdown() error {
	a.logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Error during server shutdown")
		return err
	}

	// handlers run after the listener is closed so no command races the final save
	for _, fn := range a.onShutdown {
		fn()
	}

	a.logger.Info().Msg("Server shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger
func (a *App) Logger() zerolog.Logger {
	return a.logger
}
