package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LIBRESHELF_APP_ENV" required:"true"`
	Port         string `envconfig:"LIBRESHELF_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LIBRESHELF_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LIBRESHELF_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LIBRESHELF_DB_DSN"`
	Driver string `envconfig:"LIBRESHELF_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LIBRESHELF_DB_HOST"`
	LegacyPort     int    `envconfig:"LIBRESHELF_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LIBRESHELF_DB_USER"`
	LegacyPassword string `envconfig:"LIBRESHELF_DB_PASSWORD"`
	LegacyName     string `envconfig:"LIBRESHELF_DB_NAME"`
	LegacySSLMode  string `envconfig:"LIBRESHELF_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LIBRESHELF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LIBRESHELF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LIBRESHELF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LIBRESHELF_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LIBRESHELF_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LIBRESHELF_REDIS_ADDR"`
	Password     string        `envconfig:"LIBRESHELF_REDIS_PASSWORD"`
	DB           int           `envconfig:"LIBRESHELF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LIBRESHELF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LIBRESHELF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LIBRESHELF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LIBRESHELF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LIBRESHELF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig drives the signed session cookie and its Redis-backed
// server-side record.
type SessionConfig struct {
	Secret       string `envconfig:"LIBRESHELF_SESSION_SECRET" required:"true"`
	Issuer       string `envconfig:"LIBRESHELF_SESSION_ISSUER" required:"true"`
	TTLMinutes   int    `envconfig:"LIBRESHELF_SESSION_TTL_MINUTES" default:"10080"`
	CookieName   string `envconfig:"LIBRESHELF_SESSION_COOKIE_NAME" default:"libreshelf_session"`
	CookieSecure bool   `envconfig:"LIBRESHELF_SESSION_COOKIE_SECURE" default:"true"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LIBRESHELF_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LIBRESHELF_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LIBRESHELF_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LIBRESHELF_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LIBRESHELF_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LIBRESHELF_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit     int           `envconfig:"LIBRESHELF_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LIBRESHELF_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LIBRESHELF_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUserLimit  int           `envconfig:"LIBRESHELF_AUTH_RATE_LIMIT_REGISTER_USER_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LIBRESHELF_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LIBRESHELF_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LIBRESHELF_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
