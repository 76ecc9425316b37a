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
	Timezone  string

	Excel        ExcelConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Encryption   EncryptionConfig
	Reports      ReportsConfig
	Consolidated ConsolidatedConfig
	Reconciler   ReconcilerConfig
	Catalog      CatalogConfig
}

// ExcelConfig locates the legacy workbook that remains the authoritative store.
type ExcelConfig struct {
	FilePath   string
	BackupDir  string
	MaxBackups int
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
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EncryptionConfig feeds the field cipher. Key takes precedence; otherwise the
// key is derived from Password+Salt.
type EncryptionConfig struct {
	Key      string
	Password string
	Salt     string
}

// ReportsConfig carries submission policy. EnforceDailyLimit decides whether
// exceeding MaxPerAdminPerDay rejects the submission or is informational only.
type ReportsConfig struct {
	EnforceDailyLimit     bool
	MaxPerAdminPerDay     int
	MaxIncidentsPerReport int
	MaxMovementsPerReport int
}

// ConsolidatedConfig tunes caching of the consolidated views.
type ConsolidatedConfig struct {
	CacheTTL time.Duration
}

// ReconcilerConfig governs the tabular→relational repair sweep.
type ReconcilerConfig struct {
	Enabled       bool
	SweepInterval time.Duration
	Workers       int
	MaxRetries    int
}

// CatalogConfig keeps the enum lists as deployment data rather than code.
type CatalogConfig struct {
	Administrators []string
	Operations     []string
	IncidentTypes  []string
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
	cfg.Timezone = v.GetString("TIMEZONE")

	cfg.Excel = ExcelConfig{
		FilePath:   v.GetString("EXCEL_FILE_PATH"),
		BackupDir:  v.GetString("EXCEL_BACKUP_DIR"),
		MaxBackups: v.GetInt("EXCEL_MAX_BACKUPS"),
	}

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
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Encryption = EncryptionConfig{
		Key:      v.GetString("ENCRYPTION_KEY"),
		Password: v.GetString("ENCRYPTION_PASSWORD"),
		Salt:     v.GetString("ENCRYPTION_SALT"),
	}

	cfg.Reports = ReportsConfig{
		EnforceDailyLimit:     v.GetBool("REPORTS_ENFORCE_DAILY_LIMIT"),
		MaxPerAdminPerDay:     v.GetInt("REPORTS_MAX_PER_ADMIN_PER_DAY"),
		MaxIncidentsPerReport: v.GetInt("REPORTS_MAX_INCIDENTS"),
		MaxMovementsPerReport: v.GetInt("REPORTS_MAX_MOVEMENTS"),
	}

	cfg.Consolidated = ConsolidatedConfig{
		CacheTTL: parseDuration(v.GetString("CONSOLIDATED_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Reconciler = ReconcilerConfig{
		Enabled:       v.GetBool("RECONCILER_ENABLED"),
		SweepInterval: parseDuration(v.GetString("RECONCILER_SWEEP_INTERVAL"), 15*time.Minute),
		Workers:       v.GetInt("RECONCILER_WORKERS"),
		MaxRetries:    v.GetInt("RECONCILER_MAX_RETRIES"),
	}

	cfg.Catalog = CatalogConfig{
		Administrators: listOrDefault(v.GetString("CATALOG_ADMINISTRATORS"), defaultAdministrators),
		Operations:     listOrDefault(v.GetString("CATALOG_OPERATIONS"), defaultOperations),
		IncidentTypes:  listOrDefault(v.GetString("CATALOG_INCIDENT_TYPES"), defaultIncidentTypes),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8001)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("TIMEZONE", "America/Bogota")

	v.SetDefault("EXCEL_FILE_PATH", "./data/reportes_diarios.xlsx")
	v.SetDefault("EXCEL_BACKUP_DIR", "./data/backups")
	v.SetDefault("EXCEL_MAX_BACKUPS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "reportes_diarios")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENCRYPTION_KEY", "")
	v.SetDefault("ENCRYPTION_PASSWORD", "default-dev-password")
	v.SetDefault("ENCRYPTION_SALT", "default-salt")

	v.SetDefault("REPORTS_ENFORCE_DAILY_LIMIT", true)
	v.SetDefault("REPORTS_MAX_PER_ADMIN_PER_DAY", 1)
	v.SetDefault("REPORTS_MAX_INCIDENTS", 50)
	v.SetDefault("REPORTS_MAX_MOVEMENTS", 50)

	v.SetDefault("CONSOLIDATED_CACHE_TTL", "5m")

	v.SetDefault("RECONCILER_ENABLED", true)
	v.SetDefault("RECONCILER_SWEEP_INTERVAL", "15m")
	v.SetDefault("RECONCILER_WORKERS", 1)
	v.SetDefault("RECONCILER_MAX_RETRIES", 3)

	v.SetDefault("CATALOG_ADMINISTRATORS", "")
	v.SetDefault("CATALOG_OPERATIONS", "")
	v.SetDefault("CATALOG_INCIDENT_TYPES", "")
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

func listOrDefault(raw string, fallback []string) []string {
	if values := splitAndTrim(raw); len(values) > 0 {
		return values
	}
	out := make([]string, len(fallback))
	copy(out, fallback)
	return out
}
