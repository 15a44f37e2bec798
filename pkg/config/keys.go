package config

const (
	EnvPrefix = "VENDORA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "file:vendora.db?_foreign_keys=on"

	EnvAppEnv         = "VENDORA_APP_ENV"
	EnvAppPort        = "VENDORA_APP_PORT"
	EnvLogLevel       = "VENDORA_LOG_LEVEL"
	EnvDBDSN          = "VENDORA_DB_DSN"
	EnvDBDriver       = "VENDORA_DB_DRIVER"
	EnvDBHost         = "VENDORA_DB_HOST"
	EnvDBPort         = "VENDORA_DB_PORT"
	EnvDBUser         = "VENDORA_DB_USER"
	EnvDBPassword     = "VENDORA_DB_PASSWORD"
	EnvDBName         = "VENDORA_DB_NAME"
	EnvRedisURL       = "VENDORA_REDIS_URL"
	EnvStoreOpTimeout = "VENDORA_STORE_OPERATION_TIMEOUT"
	EnvUseSQLite      = "VENDORA_USE_SQLITE"
	EnvAutoMigrate    = "VENDORA_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
