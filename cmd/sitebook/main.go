package main

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"time"

	gconfig "github.com/goliatone/go-config/config"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"

	sitebook "github.com/goliatone/go-sitebook"
	"github.com/goliatone/go-sitebook/activity"
	"github.com/goliatone/go-sitebook/changeorder"
	"github.com/goliatone/go-sitebook/client"
	"github.com/goliatone/go-sitebook/cmd/sitebook/config"
	"github.com/goliatone/go-sitebook/command"
	"github.com/goliatone/go-sitebook/document"
	"github.com/goliatone/go-sitebook/project"
	"github.com/goliatone/go-sitebook/rfi"
	"github.com/goliatone/go-sitebook/service"
	"github.com/goliatone/go-sitebook/submittal"
	"github.com/goliatone/go-sitebook/task"
	"github.com/goliatone/go-sitebook/user"
	"github.com/goliatone/go-sitebook/useractivity"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := gconfig.New(&config.BaseConfig{
		Persistence: config.PersistenceConfig{
			Driver:         "sqlite",
			Server:         "file:sitebook.db?_journal_mode=WAL&cache=shared&_fk=1",
			PingTimeout:    5 * time.Second,
			OtelIdentifier: "go-sitebook",
		},
		Retention: config.RetentionConfig{
			Enabled:    true,
			DaysToKeep: 90,
		},
	})
	if err := cfg.Load(ctx); err != nil {
		log.Fatal(err)
	}

	lgr := newLogger(cfg.Raw().Logging)
	if err := run(ctx, cfg.Raw(), lgr); err != nil {
		lgr.GetLogger("app").Error("sitebook failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LoggingConfig) *glog.BaseLogger {
	if cfg.Verbose {
		return glog.NewLogger(
			glog.WithLoggerTypePretty(),
			glog.WithLevel(glog.Trace),
			glog.WithName("sitebook"),
			glog.WithAddSource(false),
			glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
		)
	}
	return glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithName("sitebook"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)
}

func run(ctx context.Context, cfg *config.BaseConfig, lgr *glog.BaseLogger) error {
	db, err := openDatabase(ctx, cfg.Persistence, lgr)
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := service.New(service.Config{
		DB:      db,
		Logger:  &loggerAdapter{lgr.GetLogger("sitebook")},
		Dialect: cfg.Persistence.Dialect(),
	})
	if err != nil {
		return err
	}
	if err := svc.HealthCheck(ctx); err != nil {
		return err
	}

	if !cfg.Retention.Enabled {
		return nil
	}
	projectID, err := cfg.Retention.Project()
	if err != nil {
		return err
	}
	var deleted int
	return svc.Commands().PruneActivity.Execute(ctx, command.ActivityPruneInput{
		DaysToKeep: cfg.Retention.DaysToKeep,
		ProjectID:  projectID,
		Deleted:    &deleted,
	})
}

func openDatabase(ctx context.Context, cfg config.PersistenceConfig, lgr *glog.BaseLogger) (*bun.DB, error) {
	var (
		driverName  string
		sqlDialect  schema.Dialect
		dialectName = cfg.Dialect()
	)
	switch dialectName {
	case "postgres":
		driverName = "pgx"
		sqlDialect = pgdialect.New()
	default:
		driverName = sqliteshim.ShimName
		sqlDialect = sqlitedialect.New()
	}

	sqldb, err := sql.Open(driverName, cfg.GetServer())
	if err != nil {
		return nil, err
	}

	persistence.RegisterModel((*project.Project)(nil))
	persistence.RegisterModel((*task.Task)(nil))
	persistence.RegisterModel((*rfi.RFI)(nil))
	persistence.RegisterModel((*submittal.Submittal)(nil))
	persistence.RegisterModel((*changeorder.ChangeOrder)(nil))
	persistence.RegisterModel((*document.Document)(nil))
	persistence.RegisterModel((*client.Client)(nil))
	persistence.RegisterModel((*user.User)(nil))
	persistence.RegisterModel((*activity.LogEntry)(nil))
	persistence.RegisterModel((*useractivity.UserActivity)(nil))

	return bootstrapDatabase(ctx, cfg, sqldb, sqlDialect, lgr)
}

// bootstrapDatabase wraps sqldb in a persistence client and migrates it.
// sqldb is closed on every failure.
func bootstrapDatabase(ctx context.Context, cfg config.PersistenceConfig, sqldb *sql.DB, sqlDialect schema.Dialect, lgr *glog.BaseLogger) (*bun.DB, error) {
	fail := func(err error) (*bun.DB, error) {
		_ = sqldb.Close()
		return nil, err
	}

	bunClient, err := persistence.New(cfg, sqldb, sqlDialect)
	if err != nil {
		return fail(err)
	}
	bunClient.SetLogger(lgr.GetLogger("persistence"))

	migrationsFS, err := sitebook.GetMigrationsFS()
	if err != nil {
		return fail(err)
	}
	bunClient.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("."),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := bunClient.ValidateDialects(ctx); err != nil {
		log.Printf("warning: dialect validation failed: %v", err)
	}
	if err := bunClient.Migrate(ctx); err != nil {
		return fail(err)
	}
	if report := bunClient.Report(); report != nil && !report.IsZero() {
		lgr.GetLogger("persistence").Info("migrations applied", "report", report.String())
	}
	return bunClient.DB(), nil
}

// loggerAdapter adapts glog.Logger to types.Logger
type loggerAdapter struct {
	l glog.Logger
}

func (a *loggerAdapter) Debug(msg string, args ...any) {
	a.l.Debug(msg, args...)
}

func (a *loggerAdapter) Info(msg string, args ...any) {
	a.l.Info(msg, args...)
}

func (a *loggerAdapter) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append([]any{"error", err}, args...)
	}
	a.l.Error(msg, args...)
}
