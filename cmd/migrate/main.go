package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/trendr/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

type options struct {
	dsn     string
	up      bool
	down    bool
	steps   int
	version bool
	force   int
	forced  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.dsn, "dsn", "", "postgres:// URL; defaults to the [database] config and TRENDR_DB_* env")
	flag.BoolVar(&opts.up, "up", false, "apply all pending migrations")
	flag.BoolVar(&opts.down, "down", false, "revert all migrations")
	flag.IntVar(&opts.steps, "steps", 0, "apply N migrations (negative reverts)")
	flag.BoolVar(&opts.version, "version", false, "print the current schema version")
	flag.IntVar(&opts.force, "force", -1, "mark the schema as version N without running it")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		opts.forced = opts.forced || f.Name == "force"
	})

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if opts.dsn == "" {
		db, err := config.LoadDatabase()
		if err != nil {
			return err
		}
		opts.dsn = db.URL()
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, opts.dsn)
	if err != nil {
		return fmt.Errorf("connect migrator: %w", err)
	}
	defer m.Close()

	switch {
	case opts.version:
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("schema: no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("schema: version %d, dirty %v\n", v, dirty)
	case opts.forced:
		if err := m.Force(opts.force); err != nil {
			return fmt.Errorf("force version %d: %w", opts.force, err)
		}
		fmt.Printf("schema: forced to version %d\n", opts.force)
	case opts.up:
		return report(m.Up(), "up")
	case opts.down:
		return report(m.Down(), "down")
	case opts.steps != 0:
		return report(m.Steps(opts.steps), fmt.Sprintf("%+d steps", opts.steps))
	default:
		fmt.Println("usage: migrate [-dsn URL] -up | -down | -steps N | -version | -force N")
		flag.PrintDefaults()
	}
	return nil
}

func report(err error, op string) error {
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		fmt.Printf("schema: %s, nothing to apply\n", op)
	case err != nil:
		return fmt.Errorf("migrate %s: %w", op, err)
	default:
		fmt.Printf("schema: %s applied\n", op)
	}
	return nil
}
