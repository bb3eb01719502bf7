package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/yukikurage/kanban-board-api/internal/constants"
)

type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string
	DBLogLevel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OrderRetryAttempts uint
}

// Load reads configuration from defaults, an optional config.toml in the
// working directory and environment variables (db.host -> DB_HOST).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("log.level", "info")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "3306")
	v.SetDefault("db.user", "kanban")
	v.SetDefault("db.password", "kanban")
	v.SetDefault("db.name", "kanban")
	v.SetDefault("db.path", "kanban.db")
	v.SetDefault("db.log_level", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("ordering.retry_attempts", constants.DefaultOrderRetryAttempts)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServerPort:         v.GetString("server.port"),
		GinMode:            v.GetString("gin.mode"),
		LogLevel:           v.GetString("log.level"),
		DBDriver:           strings.ToLower(v.GetString("db.driver")),
		DBHost:             v.GetString("db.host"),
		DBPort:             v.GetString("db.port"),
		DBUser:             v.GetString("db.user"),
		DBPassword:         v.GetString("db.password"),
		DBName:             v.GetString("db.name"),
		DBPath:             v.GetString("db.path"),
		DBLogLevel:         strings.ToLower(v.GetString("db.log_level")),
		RedisAddr:          v.GetString("redis.addr"),
		RedisPassword:      v.GetString("redis.password"),
		RedisDB:            v.GetInt("redis.db"),
		OrderRetryAttempts: v.GetUint("ordering.retry_attempts"),
	}

	switch cfg.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported db.driver %q", cfg.DBDriver)
	}
	if cfg.OrderRetryAttempts == 0 {
		cfg.OrderRetryAttempts = constants.DefaultOrderRetryAttempts
	}

	return cfg, nil
}
