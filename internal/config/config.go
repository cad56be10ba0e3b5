package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	Port            string        `env:"PORT" envDefault:"8080"`
	AppURL          string        `env:"APP_URL" envDefault:"http://localhost:8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	DB struct {
		Driver   string `env:"DB_DRIVER" envDefault:"postgres"`
		URL      string `env:"DATABASE_URL"`
		User     string `env:"DB_USER" envDefault:"postgres"`
		Password string `env:"DB_PASSWORD"`
		Host     string `env:"DB_HOST" envDefault:"localhost"`
		Port     string `env:"DB_PORT" envDefault:"5432"`
		Name     string `env:"DB_NAME" envDefault:"contacts"`

		MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
		MongoDatabase string `env:"MONGO_DB" envDefault:"contacts"`

		// ContactsFile switches contacts to the flat JSON file store when set.
		ContactsFile string `env:"CONTACTS_FILE"`
	}

	Auth struct {
		JWTSecret       string        `env:"JWT_SECRET"`
		TokenTTL        time.Duration `env:"JWT_TTL" envDefault:"1h"`
		RequireVerified bool          `env:"AUTH_REQUIRE_VERIFIED" envDefault:"false"`
		BcryptCost      int           `env:"BCRYPT_COST" envDefault:"10"`
		RateLimit       int           `env:"AUTH_RATE_LIMIT" envDefault:"20"`
		RateWindow      time.Duration `env:"AUTH_RATE_WINDOW" envDefault:"1m"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Mail struct {
		Provider     string `env:"MAIL_PROVIDER" envDefault:"log"`
		From         string `env:"MAIL_FROM" envDefault:"no-reply@contacts.local"`
		ReplyTo      string `env:"MAIL_REPLY_TO"`
		SMTPHost     string `env:"SMTP_HOST"`
		SMTPPort     string `env:"SMTP_PORT" envDefault:"465"`
		SMTPUsername string `env:"SMTP_USERNAME"`
		SMTPPassword string `env:"SMTP_PASSWORD"`
		PlunkAPIKey  string `env:"PLUNK_API_KEY"`
		PlunkAPIURL  string `env:"PLUNK_API_URL" envDefault:"https://api.useplunk.com/v1/send"`
	}

	Avatar struct {
		Driver        string `env:"AVATAR_STORAGE" envDefault:"local"`
		TmpDir        string `env:"TMP_DIR" envDefault:"tmp"`
		PublicDir     string `env:"AVATAR_DIR" envDefault:"public/avatars"`
		PublicPath    string `env:"AVATAR_PUBLIC_PATH" envDefault:"/avatars"`
		MaxUploadSize string `env:"AVATAR_MAX_UPLOAD" envDefault:"1M"`

		S3Bucket    string `env:"S3_BUCKET"`
		S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
		S3Endpoint  string `env:"S3_ENDPOINT"`
		S3AccessKey string `env:"S3_ACCESS_KEY"`
		S3SecretKey string `env:"S3_SECRET_KEY"`
		S3PublicURL string `env:"S3_PUBLIC_URL"`
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, variables may come from the environment
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be set")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: JWT_TTL must be positive")
	}
	switch c.DB.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.Mail.Provider {
	case "log", "smtp", "plunk":
	default:
		return fmt.Errorf("config: unsupported MAIL_PROVIDER %q", c.Mail.Provider)
	}
	switch c.Avatar.Driver {
	case "local":
	case "s3":
		if c.Avatar.S3Bucket == "" {
			return errors.New("config: S3_BUCKET must be set when AVATAR_STORAGE=s3")
		}
	default:
		return fmt.Errorf("config: unsupported AVATAR_STORAGE %q", c.Avatar.Driver)
	}
	return nil
}

// PostgresDSN prefers DATABASE_URL and falls back to the DB_* parts.
func (c *Config) PostgresDSN() string {
	if c.DB.URL != "" {
		return c.DB.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DB.User, c.DB.Password),
		Host:   c.DB.Host + ":" + c.DB.Port,
		Path:   "/" + c.DB.Name,
	}
	return u.String()
}

func (c *Config) IsProduction() bool {
	return c != nil && c.Env == "production"
}
