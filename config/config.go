package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var v = newViper()

func newViper() *viper.Viper {
	vp := viper.New()
	vp.AutomaticEnv()
	setDefaults(vp)
	return vp
}

func setDefaults(vp *viper.Viper) {
	vp.SetDefault("PORT", "4200")
	vp.SetDefault("APP_ENV", "development")
	vp.SetDefault("LOG_LEVEL", "debug")

	vp.SetDefault("DB_HOST", "localhost")
	vp.SetDefault("DB_PORT", "5432")
	vp.SetDefault("DB_USER", "postgres")
	vp.SetDefault("DB_PASSWORD", "")
	vp.SetDefault("DB_NAME", "asaan_shaadi")
	vp.SetDefault("DB_SSLMODE", "disable")

	vp.SetDefault("JWT_EXPIRES_IN", "7d")
	vp.SetDefault("JWT_REFRESH_EXPIRES_IN", "30d")
	vp.SetDefault("BCRYPT_COST", 12)

	vp.SetDefault("FRONTEND_URL", "http://localhost:3000")
	vp.SetDefault("RATE_LIMIT_WINDOW_MS", 900000)
	vp.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)

	vp.SetDefault("REDIS_DB", 0)

	vp.SetDefault("SMTP_PORT", 587)
	vp.SetDefault("SMTP_FROM", "no-reply@asaanshaadi.com")

	vp.SetDefault("STRIPE_CURRENCY", "pkr")
	vp.SetDefault("BOOKING_ADVANCE_PERCENT", 25)

	vp.SetDefault("REQUIRE_EMAIL_VERIFICATION", false)
	vp.SetDefault("SEED_ON_START", false)
	vp.SetDefault("UPLOAD_DIR", "uploads")
	vp.SetDefault("TIMEZONE", "Asia/Karachi")
}

// Load reads .env files into the process environment. A missing file is ignored.
func Load(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Config returns the string value of a configuration key.
func Config(key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func Int(key string) int {
	return v.GetInt(key)
}

func Float(key string) float64 {
	return v.GetFloat64(key)
}

func Bool(key string) bool {
	return v.GetBool(key)
}

// Set overrides a key at runtime.
func Set(key string, value any) {
	v.Set(key, value)
}

func IsProduction() bool {
	return strings.EqualFold(Config("APP_ENV"), "production")
}

func IsDevelopment() bool {
	return strings.EqualFold(Config("APP_ENV"), "development")
}

func IsTest() bool {
	return strings.EqualFold(Config("APP_ENV"), "test")
}

// Duration reads a key holding a duration such as "90m", "12h" or "7d".
func Duration(key string, fallback time.Duration) time.Duration {
	d, err := ParseDuration(Config(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ParseDuration extends time.ParseDuration with a day suffix.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// DatabaseDSN prefers DATABASE_URL and falls back to the DB_* keys.
func DatabaseDSN() string {
	if url := Config("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		Config("DB_HOST"), Config("DB_PORT"), Config("DB_USER"), Config("DB_PASSWORD"), Config("DB_NAME"), Config("DB_SSLMODE"))
}

func Location() *time.Location {
	loc, err := time.LoadLocation(Config("TIMEZONE"))
	if err != nil {
		return time.FixedZone("PKT", 5*3600)
	}
	return loc
}
