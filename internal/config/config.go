package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API        *APIConfig        `mapstructure:"api"`
	Gin        *GinConfig        `mapstructure:"gin"`
	Postgres   *PostgresConfig   `mapstructure:"postgres"`
	Redis      *RedisConfig      `mapstructure:"redis"`
	SMTP       *SMTPConfig       `mapstructure:"smtp"`
	Swish      *SwishConfig      `mapstructure:"swish"`
	Tasks      *TasksConfig      `mapstructure:"tasks"`
	Newsletter *NewsletterConfig `mapstructure:"newsletter"`
}

type APIConfig struct {
	Environment        string `mapstructure:"environment"`
	BaseURL            string `mapstructure:"base_url"`
	Port               string `mapstructure:"port"`
	JWTSigningKey      string `mapstructure:"jwt_signing_key"`
	SchedulerSecret    string `mapstructure:"scheduler_secret"`
	AllowedCORSDomains string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type SwishConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	PayeeAlias  string `mapstructure:"payee_alias"`
	CallbackURL string `mapstructure:"callback_url"`
	CertFile    string `mapstructure:"cert_file"`
	KeyFile     string `mapstructure:"key_file"`
}

type TasksConfig struct {
	// FullEventTaskBurden is the number of volunteer tasks that equals a
	// 100% ticket discount.
	FullEventTaskBurden int `mapstructure:"full_event_task_burden"`
}

type NewsletterConfig struct {
	DefaultBatchSize int `mapstructure:"default_batch_size"`
}

// Load reads the yaml config at path, applies environment variable
// overrides (TASKMASTER_API_PORT etc.) and watches the file for changes.
func Load(path string) (*AppConfig, error) {
	conf := &AppConfig{}

	viper.SetConfigFile(path)

	viper.SetEnvPrefix("TASKMASTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		if err := viper.Unmarshal(conf); err != nil {
			zap.L().Error("failed to reload config", zap.Error(err))

			return
		}

		zap.L().Info("config reloaded", zap.String("file", e.Name))
	})
	viper.WatchConfig()

	return conf, nil
}
