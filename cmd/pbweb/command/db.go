// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/park-bill/pkg/adapter/config"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres"
	"github.com/momeni/park-bill/pkg/core/repo"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation, the init action creates the project tables
(idempotently, since all DDL statements are conditional). In a
development environment, the init-dev action additionally seeds the
washers directory with sample workers.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize database contents",
	Long: `Initialize database contents, creating the parking sessions,
washing services, and washers tables. The database connection
information are read from the config file. No changes will be made to
the config file itself.`,
	RunE: initDB,
	Args: cobra.NoArgs,
}

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database contents with development suitable data",
	Long: `Initialize database contents with development suitable data,
creating the project tables like the init action and then seeding the
washers directory with a couple of sample workers, so the assign
operation can be exercised without a manual INSERT.`,
	RunE: initDev,
	Args: cobra.NoArgs,
}

func initDB(_ *cobra.Command, _ []string) error {
	return runDBInit(false)
}

func initDev(_ *cobra.Command, _ []string) error {
	return runDBInit(true)
}

func runDBInit(seedDevData bool) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		return conn.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if _, err := tx.Exec(ctx, postgres.Schema); err != nil {
				return fmt.Errorf("creating tables: %w", err)
			}
			if !seedDevData {
				return nil
			}
			_, err := tx.Exec(ctx, `
INSERT INTO washers(wid, name, commission_percent) VALUES
    (1, 'Dana', 20),
    (2, 'Robin', 25)
ON CONFLICT (wid) DO NOTHING`)
			if err != nil {
				return fmt.Errorf("seeding washers: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(initCmd)
	dbCmd.AddCommand(initDevCmd)
}
