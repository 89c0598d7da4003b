package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// legacyEnv maps config keys to the environment names used by earlier
// deployments of the service.
var legacyEnv = map[string][]string{
	"storage.postgres.host":     {"DB_HOST"},
	"storage.postgres.database": {"DB_NAME"},
	"storage.postgres.user":     {"DB_USER"},
	"storage.postgres.password": {"DB_PASSWORD"},
	"storage.postgres.port":     {"DB_PORT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pennywise")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.addr", ":8000")
	v.SetDefault("http.read_header_timeout", 15*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
	v.SetDefault("http.allowed_origins", []string{"*"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("storage.driver", StorageSQLite)
	v.SetDefault("storage.sqlite_path", "pennywise.db")
	v.SetDefault("storage.postgres.host", "")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.database", "")
	v.SetDefault("storage.postgres.user", "")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.sslmode", "disable")
	v.SetDefault("storage.postgres.max_connections", 10)
	v.SetDefault("storage.postgres.max_idle", 5)

	v.SetDefault("intent.provider", ProviderDialogflow)

	v.SetDefault("dialogflow.project_id", "")
	v.SetDefault("dialogflow.base_url", "https://dialogflow.googleapis.com")
	v.SetDefault("dialogflow.credentials_file", "")
	v.SetDefault("dialogflow.language_code", "en")

	v.SetDefault("ollama.host", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.1:8b")

	v.SetDefault("finance.user_id", 1)

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.service_name", "pennywise")
}

// Load reads .env (if present), then config.yaml and config.<env>.yaml from
// ./configs or the working directory, then environment overrides such as
// DIALOGFLOW_PROJECT_ID or STORAGE_DRIVER.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return load(viper.New(), []string{"./configs", "."})
}

func load(v *viper.Viper, paths []string) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		args := append([]string{key, strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read base config: %w", err)
		}
	}

	env := v.GetString("app.environment")
	v.SetConfigName("config." + env)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s config: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
