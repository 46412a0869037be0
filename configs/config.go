package configs

import (
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	config *Config
	once   sync.Once
)

type Config struct {
	Viper *viper.Viper
}

// GetConfig loads config.yaml (if any), a local .env file (if any) and
// COLLAB_* environment variables. Environment wins over the file.
func GetConfig() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetEnvPrefix("COLLAB")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
		SetDefaults(v)

		// A missing file is fine, defaults and env cover everything.
		_ = v.ReadInConfig()

		config = &Config{Viper: v}
	})
	return config
}

// NewConfig builds a config from an existing viper instance. Used by tests.
func NewConfig(v *viper.Viper) *Config {
	SetDefaults(v)
	return &Config{Viper: v}
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "collab_board")
	v.SetDefault("database.ssl", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.path", "collab_board.db")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")

	v.SetDefault("realtime.broker", "memory")
	v.SetDefault("realtime.channel", "whiteboard_events")
	v.SetDefault("realtime.check_permission", true)
	v.SetDefault("realtime.write_timeout", 10*time.Second)
	v.SetDefault("realtime.pong_wait", 60*time.Second)
	v.SetDefault("realtime.send_buffer", 256)
	v.SetDefault("realtime.max_message_size", 512*1024)

	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.external_endpoint", "localhost:9000")
	v.SetDefault("minio.bucket", "canvas-images")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("ratelimit.rps", 20)
	v.SetDefault("ratelimit.burst", 60)

	v.SetDefault("cors.allowed_origins", []string{"*"})
}
