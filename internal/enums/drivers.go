package enums

const (
	REALTIME_BROKER_MEMORY = "memory"
	REALTIME_BROKER_REDIS  = "redis"

	DATABASE_DRIVER_POSTGRES = "postgres"
	DATABASE_DRIVER_SQLITE   = "sqlite"
)
