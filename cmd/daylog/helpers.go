package daylog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/app"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/config"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/db"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/logging"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/remote"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/service"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store/pgstore"
)

// backend is a store that serves both logs and profiles.
type backend interface {
	store.LogRepository
	store.ProfileStore
}

// env is what a command runs against: resolved config, logger, store and a
// synchronizer bound to the configured user.
type env struct {
	cfg    config.Config
	logger *logrus.Logger
	store  backend
	sync   *service.Synchronizer
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.Store.Driver = config.DriverSQLite
		cfg.Store.SQLitePath = dbPath
	}
	if remoteURL != "" {
		cfg.Store.Driver = config.DriverRemote
		cfg.Store.RemoteURL = remoteURL
	}
	if strings.TrimSpace(userID) != "" {
		cfg.User.ID = strings.TrimSpace(userID)
	}
	if cfg.Store.SQLitePath == "" {
		path, err := app.DefaultDBPath()
		if err != nil {
			return config.Config{}, err
		}
		cfg.Store.SQLitePath = path
	}
	return cfg, cfg.Validate()
}

// openBackend opens the configured store. The returned close func is never
// nil.
func openBackend(cfg config.Config) (backend, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pg, err := pgstore.Open(cfg.Store.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case config.DriverRemote:
		return remote.NewClient(cfg.Store.RemoteURL), func() error { return nil }, nil
	default:
		sqldb, err := openSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store.NewSQLite(sqldb), sqldb.Close, nil
	}
}

func openSQLite(path string) (*sql.DB, error) {
	if err := app.EnsureDBDir(path); err != nil {
		return nil, err
	}
	return db.OpenMigrated(path)
}

func withEnv(cmd *cobra.Command, run func(context.Context, *env) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	b, closeStore, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	loc, err := cfg.User.Location()
	if err != nil {
		return err
	}
	e := &env{
		cfg:    cfg,
		logger: logger,
		store:  b,
		sync: service.NewSynchronizer(cfg.User.ID, b, b,
			service.WithLogger(logger),
			service.WithLocation(loc),
			service.WithWaterDebounce(cfg.Sync.WaterDebounce),
			service.WithStreakLookback(cfg.Sync.StreakLookback),
			service.WithReconcileAfterWeight(cfg.Sync.ReconcileAfterWeight),
		),
	}
	defer e.sync.Flush()
	return run(cmd.Context(), e)
}

// withDB runs against the local SQLite database regardless of the configured
// driver.
func withDB(run func(*sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sqldb, err := openSQLite(cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer sqldb.Close()
	return run(sqldb)
}

// day resolves a --date flag. Empty means today in the user's timezone.
func (e *env) day(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value != "" && !daykey.IsValid(value) {
		return "", fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", value)
	}
	return e.sync.Day(value), nil
}

// awaitSave waits for a background save. A failed save keeps the local
// change and is reported as a warning, not a command failure.
func awaitSave(cmd *cobra.Command, pending *service.PendingSave) {
	if pending == nil {
		return
	}
	if err := pending.Wait(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: change not saved: %v\n", err)
	}
}

func parseFloatArg(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return v, nil
}

func parsePositiveFloatArg(name, value string) (float64, error) {
	v, err := parseFloatArg(name, value)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func formatOptional(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}
