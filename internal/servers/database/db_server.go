package database

import (
	"fmt"
	"sync"
	"time"

	"collabBoard/configs"
	"collabBoard/internal/enums"
	"collabBoard/internal/logging"
	"collabBoard/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	db   *gorm.DB
	once sync.Once
)

// GetDB opens the configured database once and migrates it. Startup cannot
// continue without a database, so failures are fatal.
func GetDB(config *configs.Config) *gorm.DB {
	once.Do(func() {
		var err error
		db, err = Open(config)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err = Migrate(db); err != nil {
			logging.Fatal().Err(err).Msg("failed to migrate database")
		}
		logging.Info().Str("driver", config.Viper.GetString("database.driver")).Msg("database migrated successfully")
	})
	return db
}

// Open connects using database.driver: postgres (default) or sqlite.
func Open(config *configs.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	switch driver := config.Viper.GetString("database.driver"); driver {
	case enums.DATABASE_DRIVER_SQLITE:
		conn, err := gorm.Open(sqlite.Open(config.Viper.GetString("database.path")), gormConfig)
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer; one connection avoids "database is locked".
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return conn, nil
	case enums.DATABASE_DRIVER_POSTGRES, "":
		return gorm.Open(postgres.Open(dsn(getPSQL(config))), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Whiteboard{},
		&models.WhiteboardPermission{},
		&models.CanvasObject{},
	)
}

func dsn(psql *models.PSQL) string {
	return fmt.Sprintf(
		"host=%v user=%v password=%v dbname=%v port=%v sslmode=%v TimeZone=%v",
		psql.Host, psql.User, psql.Password, psql.Name, psql.Port, psql.SSL, psql.Timezone,
	)
}

func getPSQL(config *configs.Config) *models.PSQL {
	return &models.PSQL{
		Host:     config.Viper.GetString("database.host"),
		Port:     config.Viper.GetInt("database.port"),
		User:     config.Viper.GetString("database.user"),
		Password: config.Viper.GetString("database.password"),
		Name:     config.Viper.GetString("database.name"),
		SSL:      config.Viper.GetString("database.ssl"),
		Timezone: config.Viper.GetString("database.timezone"),
	}
}

type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logging.Warn().Str("component", "gorm").Msgf(format, args...)
}
