package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/JaimeStill/autou/internal/config"
	"github.com/JaimeStill/autou/internal/schema"
)

const usage = `usage: migrate [-dsn URL] <command>

commands:
  up          apply every pending migration
  down        revert every migration
  steps N     apply N migrations (negative reverts)
  version     print the current version
  force N     mark version N as clean without running it
`

func main() {
	dsn := flag.String("dsn", "", "connection URL (defaults to the service database config)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if *dsn == "" {
		*dsn = configuredDSN()
	}

	m, err := schema.NewMigrator(*dsn)
	if err != nil {
		log.Fatalf("migrator: %v", err)
	}
	defer m.Close()

	if err := run(m, flag.Arg(0), flag.Args()[1:]); err != nil {
		m.Close()
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func configuredDSN() string {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if !cfg.Database.Configured() {
		log.Fatal("no database configured; set DATABASE_URL or pass -dsn")
	}
	return cfg.Database.Dsn()
}

func run(m *migrate.Migrate, cmd string, args []string) error {
	switch cmd {
	case "up":
		return report(m.Up(), "migrations applied")
	case "down":
		return report(m.Down(), "migrations reverted")
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return report(m.Steps(n), fmt.Sprintf("applied %d steps", n))
	case "force":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		if err := m.Force(n); err != nil {
			return err
		}
		fmt.Printf("forced to version %d\n", n)
		return nil
	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func report(err error, done string) error {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("no change")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(done)
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expects exactly one integer argument")
	}
	var n int
	if _, err := fmt.Sscan(args[0], &n); err != nil {
		return 0, fmt.Errorf("invalid integer %q", args[0])
	}
	return n, nil
}
