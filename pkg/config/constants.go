package config

const EnvPrefix = "LIBRESHELF"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv         = "LIBRESHELF_APP_ENV"
	EnvPort           = "LIBRESHELF_APP_PORT"
	EnvDBDSN          = "LIBRESHELF_DB_DSN"
	EnvDBHost         = "LIBRESHELF_DB_HOST"
	EnvDBUser         = "LIBRESHELF_DB_USER"
	EnvDBName         = "LIBRESHELF_DB_NAME"
	EnvRedisURL       = "LIBRESHELF_REDIS_URL"
	EnvSessionSecret  = "LIBRESHELF_SESSION_SECRET"
	EnvSessionIssuer  = "LIBRESHELF_SESSION_ISSUER"
	EnvSessionTTLMins = "LIBRESHELF_SESSION_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
