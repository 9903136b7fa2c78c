// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/momeni/park-bill/pkg/adapter/config"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres/servicesrp"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres/sessionsrp"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres/washersrp"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin/parkingrs"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin/reportsrs"
	"github.com/momeni/park-bill/pkg/adapter/restful/gin/washingrs"
	"github.com/momeni/park-bill/pkg/core/clock"
	"github.com/momeni/park-bill/pkg/core/model"
)

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// on demand. These connections will be passed to the repositories
// later in order to run relevant queries on them and accomplish those
// use cases. Each use case package is named like parkinguc and each
// repository package is named like sessionsrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like parkingrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// Before serving, the parking ledger and the service board rehydrate
// their in-memory state from the database, loading the open entities
// plus the current day's history for the reports.
// Possible errors will be returned after possible wrapping.
func Register(
	ctx context.Context, e *gin.Engine, p *postgres.Pool, c *config.Config,
) error {
	sessionsRepo := sessionsrp.New()
	servicesRepo := servicesrp.New()
	washersRepo := washersrp.New(p)

	parkingUseCase, err := c.Usecases.Parking.NewUseCase(p, sessionsRepo)
	if err != nil {
		return fmt.Errorf("creating parking use case: %w", err)
	}
	washingUseCase, err := c.Usecases.Washing.NewUseCase(
		p, servicesRepo, washersRepo,
	)
	if err != nil {
		return fmt.Errorf("creating washing use case: %w", err)
	}
	reportsUseCase, err := c.Usecases.Reports.NewUseCase(
		parkingUseCase, washingUseCase,
	)
	if err != nil {
		return fmt.Errorf("creating reports use case: %w", err)
	}

	clk := clock.Sys{}
	from := model.Day(clk.Now()).From
	if err := parkingUseCase.Reload(ctx, from); err != nil {
		return fmt.Errorf("reloading parking ledger from DB: %w", err)
	}
	if err := washingUseCase.Reload(ctx, from); err != nil {
		return fmt.Errorf("reloading service board from DB: %w", err)
	}

	r := e.Group("/api/pbweb/v1")
	parkingrs.Register(r, parkingUseCase, clk)
	washingrs.Register(
		r, washingUseCase, washersRepo, c.Usecases.Washing.Price, clk,
	)
	reportsrs.Register(r, reportsUseCase, clk)
	return nil
}
