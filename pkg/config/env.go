package config

const EnvPrefix = "OLIST"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "OLIST_APP_ENV"
	EnvPort         = "OLIST_APP_PORT"
	EnvLogLevel     = "OLIST_LOG_LEVEL"
	EnvLogWarnStack = "OLIST_LOG_WARN_STACK"

	EnvDataSource          = "OLIST_DATA_SOURCE"
	EnvDataDir             = "OLIST_DATA_DIR"
	EnvDataOrdersFile      = "OLIST_DATA_ORDERS_FILE"
	EnvDataItemsFile       = "OLIST_DATA_ITEMS_FILE"
	EnvDataProductsFile    = "OLIST_DATA_PRODUCTS_FILE"
	EnvDataCustomersFile   = "OLIST_DATA_CUSTOMERS_FILE"
	EnvDataDelimiter       = "OLIST_DATA_DELIMITER"
	EnvDataTimezone        = "OLIST_DATA_TIMEZONE"
	EnvDataRefreshInterval = "OLIST_DATA_REFRESH_INTERVAL"

	EnvDBDriver         = "OLIST_DB_DRIVER"
	EnvDBDSN            = "OLIST_DB_DSN"
	EnvDBOrdersTable    = "OLIST_DB_ORDERS_TABLE"
	EnvDBItemsTable     = "OLIST_DB_ITEMS_TABLE"
	EnvDBProductsTable  = "OLIST_DB_PRODUCTS_TABLE"
	EnvDBCustomersTable = "OLIST_DB_CUSTOMERS_TABLE"
	EnvDBAutoMigrate    = "OLIST_DB_AUTO_MIGRATE"

	EnvRedisURL      = "OLIST_REDIS_URL"
	EnvRedisCacheTTL = "OLIST_REDIS_CACHE_TTL"

	EnvCORSAllowedOrigins = "OLIST_CORS_ALLOWED_ORIGINS"
)

const (
	DataSourceFile = "file"
	DataSourceDB   = "db"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)
