// cmd/tools/migrate/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"livest/internal/common/config"
	"livest/internal/common/database"
)

func main() {
	if err := newRootCmd(openPostgres).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openPostgres loads configuration (from configPath when set) and returns a
// pinged Postgres client.
func openPostgres(ctx context.Context, configPath string) (migrator, func() error, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return pg, pg.Close, nil
}
