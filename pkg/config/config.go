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
	Email         EmailConfig
	Valuations    ValuationsConfig
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
	Env          string `envconfig:"AUDITRA_APP_ENV" required:"true"`
	Port         string `envconfig:"AUDITRA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AUDITRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AUDITRA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AUDITRA_DB_DSN"`
	Driver string `envconfig:"AUDITRA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AUDITRA_DB_HOST"`
	LegacyPort     int    `envconfig:"AUDITRA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUDITRA_DB_USER"`
	LegacyPassword string `envconfig:"AUDITRA_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUDITRA_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUDITRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUDITRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUDITRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUDITRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUDITRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AUDITRA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AUDITRA_REDIS_ADDR"`
	Password     string        `envconfig:"AUDITRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUDITRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUDITRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUDITRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUDITRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUDITRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUDITRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AUDITRA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AUDITRA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AUDITRA_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"AUDITRA_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AUDITRA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AUDITRA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AUDITRA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AUDITRA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AUDITRA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"AUDITRA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"AUDITRA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"AUDITRA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AUDITRA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AUDITRA_AUTO_MIGRATE" default:"false"`
}

type EmailConfig struct {
	SMTPHost    string `envconfig:"AUDITRA_SMTP_HOST"`
	SMTPPort    int    `envconfig:"AUDITRA_SMTP_PORT" default:"587"`
	SMTPUser    string `envconfig:"AUDITRA_SMTP_USER"`
	SMTPPass    string `envconfig:"AUDITRA_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"AUDITRA_EMAIL_FROM" default:"noreply@auditra.lk"`
}

// Enabled reports whether outbound email is configured at all. When false the
// dispatcher degrades to log-only delivery.
func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != ""
}

type ValuationsConfig struct {
	// EditWindow is how long a submitted valuation stays editable by its
	// field officer before the review chain takes over.
	EditWindow time.Duration `envconfig:"AUDITRA_VALUATION_EDIT_WINDOW" default:"2h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("%s is required when driver is sqlite", EnvDBDSN)
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
