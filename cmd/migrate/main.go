package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/keystone/backend/internal/infrastructure/config"
	"github.com/keystone/backend/internal/infrastructure/logger"
	"github.com/keystone/backend/internal/infrastructure/migration"
	"github.com/keystone/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// Commands that only touch the filesystem
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		dir := migrationsPath
		if dir == "" {
			dir = defaultMigrationsDir
		}
		f, err := migration.Create(dir, args[1], strings.Join(args[2:], " "), time.Now())
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		fmt.Printf("Created migration %s:\n  %s\n  %s\n", f.Version, f.UpPath, f.DownPath)
		return
	case "list":
		files, err := migration.List(sourceFS(migrationsPath))
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(files) == 0 {
			fmt.Println("No migrations found")
			return
		}
		for _, name := range files {
			fmt.Println(name)
		}
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	m, err := openMigrator(cfg, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := runCommand(m, command, args[1:], sourceFS(migrationsPath)); err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func sourceFS(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

func openMigrator(cfg *config.Config, dir string, log *zap.Logger) (*migration.Migrator, error) {
	if dir != "" {
		return migration.NewFromDir(cfg.Database.DSN(), dir, log)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return migration.New(db, migrations.FS, log)
}

func runCommand(m *migration.Migrator, command string, args []string, source fs.FS) error {
	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		if len(args) == 0 {
			return fmt.Errorf("step count required: migrate step <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", args[0], err)
		}
		return m.Steps(n)
	case "goto":
		if len(args) == 0 {
			return fmt.Errorf("version required: migrate goto <version>")
		}
		v, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return m.GoTo(uint(v))
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("Version: %d\nDirty: %t\n", v, dirty)
		return nil
	case "status":
		st, err := m.Status(source)
		if err != nil {
			return err
		}
		fmt.Printf("Applied: %d\nLatest:  %d\nDirty:   %t\nPending: %t\n", st.Version, st.Latest, st.Dirty, st.Pending())
		return nil
	case "force":
		if len(args) == 0 {
			return fmt.Errorf("version required: migrate force <version>")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return m.Force(v)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage() {
	fmt.Println(`Keystone database migration tool

Usage:
  migrate [flags] <command> [args]

Commands:
  up                      Apply all pending migrations
  down                    Roll back every migration
  step <n>                Apply n migrations (negative rolls back)
  goto <version>          Migrate up or down to a version
  version                 Print the applied version
  status                  Compare the applied version with the latest available
  force <version>         Set the version without running SQL (fixes a dirty state)
  create <name> [desc]    Write a new timestamped up/down pair
  list                    List migration files

Flags:
  -path <dir>             Use migrations from dir instead of the embedded set
  -log-level <level>      debug, info, warn, error (default info)

Database settings come from the same DB_* environment as the server.`)
}
