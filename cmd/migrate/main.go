// Command migrate manages the propdesk database schema.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/infrastructure/migration"
	"github.com/propdesk/backend/migrations"
)

const defaultMigrationsDir = "migrations"

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "dir", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	cfg := logger.DefaultConfig()
	cfg.Level = logLevel
	log := logger.New(cfg)
	defer func() { _ = log.Sync() }()

	if err := run(args, dir, log); err != nil {
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(args []string, dir string, log *zap.Logger) error {
	command := args[0]

	// create and list only touch files
	switch command {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate create <name> [description]")
		}
		target := dir
		if target == "" {
			target = defaultMigrationsDir
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(target, args[1], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	case "list":
		var src fs.FS = migrations.FS
		if dir != "" {
			src = os.DirFS(dir)
		}
		entries, err := migration.ListMigrations(src)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			log.Info("No migrations found")
			return nil
		}
		for _, e := range entries {
			fmt.Println(e.BaseName())
		}
		return nil
	}

	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	var m *migration.Migrator
	if dir != "" {
		m, err = migration.NewFromURL(appCfg.Database.DSN(), nil, dir, log)
	} else {
		db, openErr := sql.Open("postgres", appCfg.Database.DSN())
		if openErr != nil {
			return fmt.Errorf("open database: %w", openErr)
		}
		if pingErr := db.Ping(); pingErr != nil {
			_ = db.Close()
			return fmt.Errorf("ping database: %w", pingErr)
		}
		m, err = migration.New(db, migrations.FS, log)
	}
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative")
		}
		return m.GoTo(uint(v))
	case "force":
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		st, err := m.Status()
		if err != nil {
			return err
		}
		if !st.Applied {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", st.Version), zap.Bool("dirty", st.Dirty))
		if st.Dirty {
			log.Warn("Schema is dirty; fix the failed migration and run: migrate force <version>")
		}
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func intArg(args []string, what string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[1])
	}
	return n, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command> [args]

Commands:
  up                 Apply all pending migrations
  down               Roll back all migrations
  step <n>           Apply n migrations (negative rolls back)
  goto <version>     Migrate up or down to a version
  version            Show the current schema version
  force <version>    Record a version without running it (dirty recovery)
  create <name> [d]  Create the next migration pair on disk
  list               List available migrations

Flags:
`)
	flag.PrintDefaults()
}
