package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/app"
)

const envPrefix = "DAYLOG"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRemote   = "remote"
)

type Config struct {
	Store  StoreConfig
	User   UserConfig
	Sync   SyncConfig
	Log    LogConfig
	Server ServerConfig
	Lookup LookupConfig
	// File is the config file that was read, empty when none was found.
	File string
}

type StoreConfig struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	RemoteURL   string
}

type UserConfig struct {
	ID       string
	Timezone string
}

type SyncConfig struct {
	WaterDebounce        time.Duration
	StreakLookback       int
	ReconcileAfterWeight bool
}

type LogConfig struct {
	Level       string
	File        string
	LogstashURL string
}

type ServerConfig struct {
	Addr string
}

type LookupConfig struct {
	OpenFoodFactsURL string
}

// Location resolves the configured timezone, falling back to local time.
func (c UserConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite_path", "")
	v.SetDefault("store.postgres_dsn", "")
	v.SetDefault("store.remote_url", "")
	v.SetDefault("user.id", "default")
	v.SetDefault("user.timezone", "")
	v.SetDefault("sync.water_debounce", "500ms")
	v.SetDefault("sync.streak_lookback", 30)
	v.SetDefault("sync.reconcile_after_weight", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.logstash_url", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("lookup.openfoodfacts_url", "")
}

// Load reads configuration from path when given, otherwise from daylog.yml
// in the working directory or the user config dir. A missing file is not an
// error; DAYLOG_* environment variables (and a .env file) override file
// values.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("daylog")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		if dir, err := app.Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Store: StoreConfig{
			Driver:      strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			SQLitePath:  v.GetString("store.sqlite_path"),
			PostgresDSN: v.GetString("store.postgres_dsn"),
			RemoteURL:   v.GetString("store.remote_url"),
		},
		User: UserConfig{
			ID:       strings.TrimSpace(v.GetString("user.id")),
			Timezone: v.GetString("user.timezone"),
		},
		Sync: SyncConfig{
			WaterDebounce:        v.GetDuration("sync.water_debounce"),
			StreakLookback:       v.GetInt("sync.streak_lookback"),
			ReconcileAfterWeight: v.GetBool("sync.reconcile_after_weight"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			File:        v.GetString("log.file"),
			LogstashURL: v.GetString("log.logstash_url"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Lookup: LookupConfig{
			OpenFoodFactsURL: v.GetString("lookup.openfoodfacts_url"),
		},
		File: v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres driver")
		}
	case DriverRemote:
		if c.Store.RemoteURL == "" {
			return fmt.Errorf("store.remote_url is required for the remote driver")
		}
	default:
		return fmt.Errorf("invalid store.driver %q (use sqlite, postgres or remote)", c.Store.Driver)
	}
	if c.User.ID == "" {
		return fmt.Errorf("user.id must not be empty")
	}
	if c.Sync.WaterDebounce < 0 {
		return fmt.Errorf("sync.water_debounce must be >= 0")
	}
	if c.Sync.StreakLookback < 0 {
		return fmt.Errorf("sync.streak_lookback must be >= 0")
	}
	if _, err := c.User.Location(); err != nil {
		return err
	}
	return nil
}
