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
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Mapbox        MapboxConfig
	Cron          CronConfig
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
	Env          string `envconfig:"PRESERVE_APP_ENV" required:"true"`
	Port         string `envconfig:"PRESERVE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRESERVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRESERVE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRESERVE_DB_DSN"`
	Driver string `envconfig:"PRESERVE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRESERVE_DB_HOST"`
	LegacyPort     int    `envconfig:"PRESERVE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRESERVE_DB_USER"`
	LegacyPassword string `envconfig:"PRESERVE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRESERVE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRESERVE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRESERVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRESERVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRESERVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRESERVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRESERVE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRESERVE_REDIS_ADDR"`
	Password     string        `envconfig:"PRESERVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRESERVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRESERVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRESERVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRESERVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRESERVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRESERVE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PRESERVE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PRESERVE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PRESERVE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PRESERVE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PRESERVE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PRESERVE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PRESERVE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PRESERVE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PRESERVE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PRESERVE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PRESERVE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PRESERVE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PRESERVE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PRESERVE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PRESERVE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PRESERVE_AUTO_MIGRATE" default:"false"`
}

type MapboxConfig struct {
	AccessToken string `envconfig:"PRESERVE_MAPBOX_ACCESS_TOKEN"`
}

type CronConfig struct {
	Interval   time.Duration `envconfig:"PRESERVE_CRON_INTERVAL" default:"1m"`
	LockTTL    time.Duration `envconfig:"PRESERVE_CRON_LOCK_TTL" default:"5m"`
	ReviewHold time.Duration `envconfig:"PRESERVE_ASSIGNMENT_REVIEW_HOLD" default:"0s"`
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
