package http

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collabBoard/configs"
	_ "collabBoard/docs"
	"collabBoard/internal/handlers"
	"collabBoard/internal/logging"

	"github.com/gin-gonic/gin"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type HttpServer struct {
	ctx                     context.Context
	config                  *configs.Config
	router                  *gin.Engine
	restHandler             *handlers.RestHandler
	socketWhiteboardHandler *handlers.SocketWhiteboardHandler
	rateLimiter             *handlers.RateLimiter
	jwtSecret               []byte
	onShutdown              []func(context.Context)
}

func NewHttpServer(
	ctx context.Context,
	config *configs.Config,
	restHandler *handlers.RestHandler,
	socketWhiteboardHandler *handlers.SocketWhiteboardHandler,
	jwtSecret []byte,
) *HttpServer {
	return &HttpServer{
		ctx:                     ctx,
		config:                  config,
		restHandler:             restHandler,
		socketWhiteboardHandler: socketWhiteboardHandler,
		rateLimiter: handlers.NewRateLimiter(
			config.Viper.GetFloat64("ratelimit.rps"),
			config.Viper.GetInt("ratelimit.burst"),
		),
		jwtSecret: jwtSecret,
	}
}

// OnShutdown registers fn to run after the listener stops accepting requests.
func (hs *HttpServer) OnShutdown(fn func(context.Context)) {
	hs.onShutdown = append(hs.onShutdown, fn)
}

func (hs *HttpServer) Run() {
	hs.initializeGin()
	hs.setupRestfulRoutes()
	hs.setupWebSocketRoutes()

	go hs.rateLimiter.Cleanup(hs.ctx)

	server := hs.startServer()

	// Wait for interrupt signal to gracefully shut down the server
	hs.waitForShutdown(server)
}

// Handler builds the routed engine without starting a listener.
func (hs *HttpServer) Handler() http.Handler {
	if hs.router == nil {
		hs.initializeGin()
		hs.setupRestfulRoutes()
		hs.setupWebSocketRoutes()
	}
	return hs.withCORS(hs.router)
}

func (hs *HttpServer) initializeGin() {
	handlers.InitPrometheus()

	hs.router = gin.New()
	hs.router.Use(gin.Recovery(), handlers.RequestLogger(), handlers.MonitorMiddleware())
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.GET("/health", handlers.Health)
	hs.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	hs.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := hs.router.Group("/api",
		hs.rateLimiter.Middleware(),
		handlers.MustAuthenticateMiddleware(hs.jwtSecret),
	)
	hs.restHandler.RegisterRoutes(api)
}

func (hs *HttpServer) setupWebSocketRoutes() {
	hs.socketWhiteboardHandler.RegisterRoutes(hs.router)
}

func (hs *HttpServer) withCORS(next http.Handler) http.Handler {
	return gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(hs.config.Viper.GetStringSlice("cors.allowed_origins")),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(next)
}

func (hs *HttpServer) startServer() *http.Server {
	addr := hs.config.Viper.GetString("server.port")
	server := &http.Server{
		Addr:              addr,
		Handler:           hs.withCORS(hs.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", addr).Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(httpServer *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(hs.ctx, hs.config.Viper.GetDuration("server.shutdown_timeout"))
	defer cancel()

	// Hijacked websocket connections are not tracked by http.Server.
	if err := hs.socketWhiteboardHandler.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("websocket connections did not drain in time")
	}

	if err := httpServer.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
	}

	for _, fn := range hs.onShutdown {
		fn(ctx)
	}

	logging.Info().Msg("server exiting")
}
