package app

import (
	"context"
	"sync"

	"collabBoard/configs"
	"collabBoard/internal/enums"
	"collabBoard/internal/handlers"
	"collabBoard/internal/hub"
	"collabBoard/internal/interfaces"
	"collabBoard/internal/logging"
	"collabBoard/internal/repositories"
	"collabBoard/internal/servers/database"
	"collabBoard/internal/servers/http"
	"collabBoard/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis       *redis.Client
	redisRouter *hub.RedisRouter
	ctx         context.Context
	cancel      context.CancelFunc
	configs     *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx, app.cancel = context.WithCancel(context.Background())
	defer app.cancel()

	app.initializeConfigs()
	app.initializeLogging()

	jwtSecret := []byte(app.configs.Viper.GetString("jwt.secret"))
	if len(jwtSecret) == 0 {
		logging.Fatal().Msg("jwt.secret must be set (COLLAB_JWT_SECRET)")
	}

	db := database.GetDB(app.configs)
	whiteboardRepo := repositories.NewWhiteboardRepository(db)
	permissionRepo := repositories.NewPermissionRepository(db)
	objectRepo := repositories.NewCanvasObjectRepository(db)

	registry := hub.NewMemoryRegistry()
	broadcaster := app.initializeBroadcaster(registry)

	permissionService := services.NewPermissionService(whiteboardRepo, permissionRepo)
	lockCoordinator := services.NewLockCoordinator(objectRepo, permissionService, broadcaster)
	whiteboardService := services.NewWhiteboardService(whiteboardRepo, permissionRepo, permissionService)
	canvasService := services.NewCanvasService(objectRepo, permissionService, lockCoordinator)
	fileManagerService := services.NewFileManagerService(
		app.initializeFileManager(),
		permissionService,
		app.configs.Viper.GetString("minio.bucket"),
	)

	restHandler := handlers.NewRestHandler(
		whiteboardService,
		canvasService,
		lockCoordinator,
		fileManagerService,
	)

	socketWhiteboardHandler := handlers.NewSocketWhiteboardHandler(
		app.ctx,
		registry,
		broadcaster,
		permissionService,
		jwtSecret,
		handlers.SocketOptions{
			CheckPermission: app.configs.Viper.GetBool("realtime.check_permission"),
			WriteTimeout:    app.configs.Viper.GetDuration("realtime.write_timeout"),
			PongWait:        app.configs.Viper.GetDuration("realtime.pong_wait"),
			SendBuffer:      app.configs.Viper.GetInt("realtime.send_buffer"),
			MaxMessageSize:  app.configs.Viper.GetInt64("realtime.max_message_size"),
		},
	)

	server := http.NewHttpServer(
		app.ctx,
		app.configs,
		restHandler,
		socketWhiteboardHandler,
		jwtSecret,
	)
	server.OnShutdown(app.shutdown)
	server.Run()
}

func (app *App) initializeConfigs() {
	app.configs = configs.GetConfig()
}

func (app *App) initializeLogging() {
	logging.Init(logging.Config{
		Level:  app.configs.Viper.GetString("log.level"),
		Format: app.configs.Viper.GetString("log.format"),
	})
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.configs.Viper.GetString("redis.addr"),
		Password: app.configs.Viper.GetString("redis.password"),
		DB:       app.configs.Viper.GetInt("redis.db"),
	})
}

// initializeBroadcaster returns the in-process router, or a Redis relay in
// front of it when rooms span several instances.
func (app *App) initializeBroadcaster(registry hub.Registry) hub.Broadcaster {
	router := hub.NewRouter(registry)

	broker := app.configs.Viper.GetString("realtime.broker")
	switch broker {
	case enums.REALTIME_BROKER_MEMORY, "":
		return router
	case enums.REALTIME_BROKER_REDIS:
		app.initializeRedis()
		app.redisRouter = hub.NewRedisRouter(app.redis, app.configs.Viper.GetString("realtime.channel"), router)
		if err := app.redisRouter.Start(app.ctx); err != nil {
			logging.Fatal().Err(err).Msg("could not subscribe to redis channel")
		}
		return app.redisRouter
	default:
		logging.Fatal().Str("broker", broker).Msg("unknown realtime broker")
		return nil
	}
}

// initializeFileManager returns nil when object storage is disabled.
func (app *App) initializeFileManager() interfaces.FileManager {
	if !app.configs.Viper.GetBool("minio.enabled") {
		logging.Info().Msg("image uploads disabled, minio.enabled is false")
		return nil
	}
	minioService, err := services.NewMinioService(app.ctx, app.configs)
	if err != nil {
		logging.Fatal().Err(err).Msg("could not initialize minio")
	}
	return minioService
}

func (app *App) shutdown(context.Context) {
	app.cancel()
	if app.redisRouter != nil {
		if err := app.redisRouter.Close(); err != nil {
			logging.Warn().Err(err).Msg("closing redis subscription")
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			logging.Warn().Err(err).Msg("closing redis client")
		}
	}
}
