package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Discovery DiscoveryConfig
	Scoring   ScoringConfig
	Exports   ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DiscoveryConfig tunes the tutor discovery read path.
type DiscoveryConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	CacheEnabled    bool
	CacheTTL        time.Duration
}

// ScoringConfig carries the recommend-mode ranking weights. Weights live
// here, and only here, so tuning never touches pipeline code.
type ScoringConfig struct {
	GradeMatch           float64
	EducationSystemMatch float64
	SectorMatch          float64
	RatingWeight         float64
	GovernateBoost       float64
	NameMatchBoost       float64
}

// ExportsConfig gates the listing export endpoints and tunes the async
// export worker.
type ExportsConfig struct {
	Enabled     bool
	MaxRows     int
	Dir         string
	Workers     int
	DownloadTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Discovery = DiscoveryConfig{
		DefaultPageSize: v.GetInt("DISCOVERY_DEFAULT_PAGE_SIZE"),
		MaxPageSize:     v.GetInt("DISCOVERY_MAX_PAGE_SIZE"),
		CacheEnabled:    v.GetBool("DISCOVERY_CACHE_ENABLED"),
		CacheTTL:        parseDuration(v.GetString("DISCOVERY_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Scoring = ScoringConfig{
		GradeMatch:           v.GetFloat64("SCORING_GRADE_MATCH"),
		EducationSystemMatch: v.GetFloat64("SCORING_EDUCATION_SYSTEM_MATCH"),
		SectorMatch:          v.GetFloat64("SCORING_SECTOR_MATCH"),
		RatingWeight:         v.GetFloat64("SCORING_RATING_WEIGHT"),
		GovernateBoost:       v.GetFloat64("SCORING_GOVERNATE_BOOST"),
		NameMatchBoost:       v.GetFloat64("SCORING_NAME_MATCH_BOOST"),
	}

	cfg.Exports = ExportsConfig{
		Enabled:     v.GetBool("ENABLE_EXPORTS"),
		MaxRows:     v.GetInt("EXPORTS_MAX_ROWS"),
		Dir:         v.GetString("EXPORTS_DIR"),
		Workers:     v.GetInt("EXPORTS_WORKERS"),
		DownloadTTL: parseDuration(v.GetString("EXPORTS_DOWNLOAD_TTL"), 24*time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ostazy")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DISCOVERY_DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("DISCOVERY_MAX_PAGE_SIZE", 50)
	v.SetDefault("DISCOVERY_CACHE_ENABLED", false)
	v.SetDefault("DISCOVERY_CACHE_TTL", "5m")

	v.SetDefault("SCORING_GRADE_MATCH", 2)
	v.SetDefault("SCORING_EDUCATION_SYSTEM_MATCH", 2)
	v.SetDefault("SCORING_SECTOR_MATCH", 1)
	v.SetDefault("SCORING_RATING_WEIGHT", 1)
	v.SetDefault("SCORING_GOVERNATE_BOOST", 1)
	v.SetDefault("SCORING_NAME_MATCH_BOOST", 5)

	v.SetDefault("ENABLE_EXPORTS", false)
	v.SetDefault("EXPORTS_MAX_ROWS", 1000)
	v.SetDefault("EXPORTS_DIR", "./exports")
	v.SetDefault("EXPORTS_WORKERS", 2)
	v.SetDefault("EXPORTS_DOWNLOAD_TTL", "24h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
