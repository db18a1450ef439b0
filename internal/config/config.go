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
	Env  string
	Port string

	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Log      LogConfig
	Storage  StorageConfig
	Chat     ChatConfig
	Leave    LeaveConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
}

type KafkaConfig struct {
	Broker             string
	ConsumerGroup      string
	OutboxPollInterval time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig locates uploaded blobs (chat attachments, profile pictures).
type StorageConfig struct {
	Dir       string
	URLPrefix string
}

type ChatConfig struct {
	MaxAttachmentBytes int64
	MaxPollWait        time.Duration
}

// LeaveConfig holds leave workflow policy switches.
type LeaveConfig struct {
	ReassignManagerOnSubmit bool
	TypeCacheTTL            time.Duration
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("APP_ENV")
	cfg.Port = v.GetString("PORT")

	cfg.Server = ServerConfig{
		ReadTimeout:  parseDuration(v.GetString("HTTP_READ_TIMEOUT"), 5*time.Second),
		WriteTimeout: parseDuration(v.GetString("HTTP_WRITE_TIMEOUT"), 40*time.Second),
		IdleTimeout:  parseDuration(v.GetString("HTTP_IDLE_TIMEOUT"), 60*time.Second),
	}

	cfg.Database = DatabaseConfig{
		Host:       v.GetString("DB_HOST"),
		Port:       v.GetString("DB_PORT"),
		User:       v.GetString("DB_USER"),
		Password:   v.GetString("DB_PASSWORD"),
		Name:       v.GetString("DB_NAME"),
		SSLMode:    v.GetString("DB_SSLMODE"),
		MaxRetries: v.GetInt("DB_MAX_RETRIES"),
	}

	cfg.Redis = RedisConfig{
		Addr:       v.GetString("REDIS_ADDR"),
		Password:   v.GetString("REDIS_PASSWORD"),
		DB:         v.GetInt("REDIS_DB"),
		MaxRetries: v.GetInt("REDIS_MAX_RETRIES"),
	}

	cfg.Kafka = KafkaConfig{
		Broker:             v.GetString("KAFKA_BROKER"),
		ConsumerGroup:      v.GetString("KAFKA_CONSUMER_GROUP"),
		OutboxPollInterval: parseDuration(v.GetString("OUTBOX_POLL_INTERVAL"), 3*time.Second),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		Dir:       v.GetString("MEDIA_DIR"),
		URLPrefix: v.GetString("MEDIA_URL_PREFIX"),
	}

	maxAttachment := v.GetInt64("CHAT_MAX_ATTACHMENT_BYTES")
	if maxAttachment <= 0 {
		maxAttachment = 10 * 1024 * 1024
	}
	cfg.Chat = ChatConfig{
		MaxAttachmentBytes: maxAttachment,
		MaxPollWait:        parseDuration(v.GetString("CHAT_MAX_POLL_WAIT"), 25*time.Second),
	}

	cfg.Leave = LeaveConfig{
		ReassignManagerOnSubmit: v.GetBool("LEAVE_REASSIGN_MANAGER_ON_SUBMIT"),
		TypeCacheTTL:            parseDuration(v.GetString("LEAVE_TYPE_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Seed = SeedConfig{
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("PORT", "3000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "leaveflow")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 5)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 5)

	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "leaveflow")
	v.SetDefault("OUTBOX_POLL_INTERVAL", "3s")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("MEDIA_DIR", "./media")
	v.SetDefault("MEDIA_URL_PREFIX", "/media")

	v.SetDefault("CHAT_MAX_ATTACHMENT_BYTES", 10*1024*1024)
	v.SetDefault("CHAT_MAX_POLL_WAIT", "25s")

	v.SetDefault("LEAVE_REASSIGN_MANAGER_ON_SUBMIT", true)
	v.SetDefault("LEAVE_TYPE_CACHE_TTL", "10m")

	v.SetDefault("ADMIN_EMAIL", "admin@leaveflow.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
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
