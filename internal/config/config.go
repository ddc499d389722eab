package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	SessionSecret string
	GinMode       string
	Port          string

	JWTSecret      string
	JWTExpireHours int
	OTPTTL         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	OpenAIAPIKey string
}

var defaults = map[string]any{
	"DB_DRIVER":            "mysql",
	"DB_HOST":              "localhost",
	"DB_PORT":              "3306",
	"DB_USER":              "marketuser",
	"DB_PASSWORD":          "marketpassword",
	"DB_NAME":              "freelance_marketplace",
	"DB_SSLMODE":           "disable",
	"REDIS_HOST":           "localhost",
	"REDIS_PORT":           "6379",
	"REDIS_PASSWORD":       "",
	"SESSION_SECRET":       "default-secret-key-change-me",
	"GIN_MODE":             "debug",
	"PORT":                 "8080",
	"JWT_SECRET":           "default-jwt-secret-change-me",
	"JWT_EXPIRE_HOURS":     168,
	"OTP_TTL":              "10m",
	"SMTP_HOST":            "",
	"SMTP_PORT":            "587",
	"SMTP_USER":            "",
	"SMTP_PASSWORD":        "",
	"MAIL_FROM":            "no-reply@marketplace.local",
	"GOOGLE_CLIENT_ID":     "",
	"GOOGLE_CLIENT_SECRET": "",
	"GOOGLE_REDIRECT_URL":  "http://localhost:8080/api/auth/google/callback",
	"OPENAI_API_KEY":       "",
}

// Load reads .env (if present), an optional config file named by CONFIG_FILE,
// and the process environment, in increasing order of precedence.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("config: ignoring %s: %v", path, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	otpTTL := v.GetDuration("OTP_TTL")
	if otpTTL <= 0 {
		otpTTL = 10 * time.Minute
	}

	return &Config{
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSSLMode:     v.GetString("DB_SSLMODE"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		GinMode:       v.GetString("GIN_MODE"),
		Port:          v.GetString("PORT"),

		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTExpireHours: v.GetInt("JWT_EXPIRE_HOURS"),
		OTPTTL:         otpTTL,

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetString("SMTP_PORT"),
		SMTPUser:     v.GetString("SMTP_USER"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		MailFrom:     v.GetString("MAIL_FROM"),

		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),

		OpenAIAPIKey: v.GetString("OPENAI_API_KEY"),
	}
}

// RedisAddr returns host:port for the Redis server.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// GoogleOAuthEnabled reports whether Google login is configured.
func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
