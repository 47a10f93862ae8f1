package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// RedisConfig holds settings for the Redis instance backing refresh tokens
// and email verification codes.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL is prepended to object keys to build URLs handed to clients.
	PublicBaseURL string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string
	AccessExp  time.Duration
	RefreshExp time.Duration
}

// CookieConfig controls the auth cookies written on login.
type CookieConfig struct {
	Domain string
	Secure bool
}

// CORSConfig lists the browser origins allowed to send credentialed requests.
type CORSConfig struct {
	AllowedOrigins []string
}

// MailConfig holds SMTP settings.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// OAuth2Config describes a single OAuth2 login provider.
type OAuth2Config struct {
	Provider        string
	ClientID        string
	ClientSecret    string
	AuthURL         string
	TokenURL        string
	UserInfoURL     string
	RedirectURL     string
	Scopes          []string
	SuccessURL      string
	RegistrationURL string
}

// Enabled reports whether enough settings are present to run the login flow.
func (c OAuth2Config) Enabled() bool {
	return c.Provider != "" && c.ClientID != "" && c.AuthURL != "" && c.TokenURL != "" && c.UserInfoURL != ""
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	TimeZone string
	LogLevel string
	Database DatabaseConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	CORS     CORSConfig
	Mail     MailConfig
	OAuth2   OAuth2Config
}

// Location resolves TimeZone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		TimeZone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", ""),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: strings.TrimRight(getEnv("MINIO_PUBLIC_BASE_URL", ""), "/"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			AccessExp:  getEnvDuration("JWT_ACCESS_EXP", 30*time.Minute),
			RefreshExp: getEnvDuration("JWT_REFRESH_EXP", 14*24*time.Hour),
		},
		Cookie: CookieConfig{
			Domain: getEnv("COOKIE_DOMAIN", ""),
			Secure: getEnvBool("COOKIE_SECURE", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", ""),
		},
		OAuth2: OAuth2Config{
			Provider:        strings.ToUpper(getEnv("OAUTH2_PROVIDER", "")),
			ClientID:        getEnv("OAUTH2_CLIENT_ID", ""),
			ClientSecret:    getEnv("OAUTH2_CLIENT_SECRET", ""),
			AuthURL:         getEnv("OAUTH2_AUTH_URL", ""),
			TokenURL:        getEnv("OAUTH2_TOKEN_URL", ""),
			UserInfoURL:     getEnv("OAUTH2_USERINFO_URL", ""),
			RedirectURL:     getEnv("OAUTH2_REDIRECT_URL", ""),
			Scopes:          getEnvList("OAUTH2_SCOPES", ""),
			SuccessURL:      getEnv("OAUTH2_SUCCESS_URL", "/"),
			RegistrationURL: getEnv("OAUTH2_REGISTRATION_URL", "/auth/register/step2"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("15m", "336h").
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key, def string) []string {
	v := getEnv(key, def)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
