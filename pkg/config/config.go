package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Approval      ApprovalConfig
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
	Env          string `envconfig:"ORCAMENTOS_APP_ENV" required:"true"`
	Port         string `envconfig:"ORCAMENTOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORCAMENTOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORCAMENTOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ORCAMENTOS_DB_DSN"`
	Driver string `envconfig:"ORCAMENTOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ORCAMENTOS_DB_HOST"`
	LegacyPort     int    `envconfig:"ORCAMENTOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ORCAMENTOS_DB_USER"`
	LegacyPassword string `envconfig:"ORCAMENTOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"ORCAMENTOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"ORCAMENTOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORCAMENTOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORCAMENTOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORCAMENTOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORCAMENTOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ORCAMENTOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ORCAMENTOS_REDIS_ADDR"`
	Password     string        `envconfig:"ORCAMENTOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORCAMENTOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORCAMENTOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORCAMENTOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORCAMENTOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORCAMENTOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORCAMENTOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ORCAMENTOS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ORCAMENTOS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ORCAMENTOS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ORCAMENTOS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ORCAMENTOS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ORCAMENTOS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ORCAMENTOS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ORCAMENTOS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ORCAMENTOS_ARGON_KEY_LEN" default:"32"`
}

// ApprovalConfig drives the server-side "requires approval" rule: budgets whose
// discount percent exceeds the threshold enter the approval queue.
type ApprovalConfig struct {
	DiscountThresholdPercent string `envconfig:"ORCAMENTOS_APPROVAL_DISCOUNT_THRESHOLD" default:"10"`
}

// DiscountThreshold parses the configured threshold, falling back to 10%.
func (a ApprovalConfig) DiscountThreshold() decimal.Decimal {
	threshold, err := decimal.NewFromString(strings.TrimSpace(a.DiscountThresholdPercent))
	if err != nil {
		return decimal.NewFromInt(10)
	}
	return threshold
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"ORCAMENTOS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"ORCAMENTOS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"ORCAMENTOS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ORCAMENTOS_AUTO_MIGRATE" default:"false"`
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
