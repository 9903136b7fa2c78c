// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/google/uuid"
	"github.com/momeni/park-bill/internal/test/dbcontainer"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres/servicesrp"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres/sessionsrp"
	"github.com/momeni/park-bill/pkg/adapter/db/postgres/washersrp"
	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/repo"
	"github.com/momeni/park-bill/pkg/core/usecase/parkinguc"
	"github.com/momeni/park-bill/pkg/core/usecase/washinguc"
	"github.com/stretchr/testify/suite"
)

type IntegrationReposTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
}

func TestIntegrationReposTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationReposTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (irts *IntegrationReposTestSuite) SetupSuite() {
	err := irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			_, err := c.Exec(ctx, postgres.Schema)
			return err
		},
	)
	irts.Require().NoError(err, "failed to create schema contents")
	_, err = irts.exec(`
INSERT INTO washers(wid, name, commission_percent) VALUES
    (7, 'Dana', 20),
    (9, 'Robin', 25)
ON CONFLICT (wid) DO NOTHING`)
	irts.Require().NoError(err, "failed to seed washers")
}

func (irts *IntegrationReposTestSuite) exec(
	sql string, args ...any,
) (count int64, err error) {
	err = irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			count, err = c.Exec(ctx, sql, args...)
			return err
		},
	)
	return count, err
}

func (irts *IntegrationReposTestSuite) TestSessionsSaveAndLoad() {
	sessions := sessionsrp.New()
	entry := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	s := model.ParkingSession{
		ID:           uuid.New(),
		Plate:        "11A111",
		VehicleClass: model.VehicleClassCar,
		EntryTime:    entry,
		HelmetCount:  0,
		Status:       model.SessionStatusActive,
	}
	err := irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return sessions.Conn(c).Save(ctx, s)
		},
	)
	irts.Require().NoError(err, "failed to save an active session")

	var loaded []model.ParkingSession
	err = irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			var err error
			loaded, err = sessions.Conn(c).LoadSince(
				ctx, time.Now().Add(-time.Minute),
			)
			return err
		},
	)
	irts.Require().NoError(err, "failed to load sessions")
	// entry is older than `from`, but Active rows always load
	found := false
	for _, l := range loaded {
		if l.ID != s.ID {
			continue
		}
		found = true
		irts.Equal("11A111", l.Plate)
		irts.Equal(model.SessionStatusActive, l.Status)
		irts.WithinDuration(entry, l.EntryTime, time.Second)
	}
	irts.True(found, "the active session must be rehydrated")

	// an upsert with the same id overwrites it as completed
	exit := entry.Add(45 * time.Minute)
	s.Status = model.SessionStatusCompleted
	s.ExitTime = &exit
	s.TotalCost = 2000
	err = irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return sessions.Conn(c).Save(ctx, s)
		},
	)
	irts.Require().NoError(err, "failed to complete the session")

	err = irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			var err error
			loaded, err = sessions.Conn(c).LoadSince(
				ctx, time.Now().Add(-time.Minute),
			)
			return err
		},
	)
	irts.Require().NoError(err, "failed to reload sessions")
	for _, l := range loaded {
		irts.NotEqual(
			s.ID, l.ID,
			"a completed old session matches neither filter",
		)
	}
}

func (irts *IntegrationReposTestSuite) TestServicesSaveAndLoad() {
	services := servicesrp.New()
	created := time.Now().Truncate(time.Second)
	s := model.WashingService{
		ID:          uuid.New(),
		Plate:       "22B222",
		ServiceType: model.ServiceTypePremium,
		Price:       45000,
		Status:      model.ServiceStatusPending,
		CreatedAt:   created,
	}
	err := irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return services.Conn(c).Save(ctx, s)
		},
	)
	irts.Require().NoError(err, "failed to save a pending service")

	var loaded []model.WashingService
	err = irts.Pool.Conn(
		irts.Ctx, func(ctx context.Context, c repo.Conn) error {
			var err error
			loaded, err = services.Conn(c).LoadSince(
				ctx, created.Add(-time.Hour),
			)
			return err
		},
	)
	irts.Require().NoError(err, "failed to load services")
	found := false
	for _, l := range loaded {
		if l.ID != s.ID {
			continue
		}
		found = true
		irts.Equal(model.ServiceTypePremium, l.ServiceType)
		irts.Equal(model.Money(45000), l.Price)
		irts.Nil(l.WasherID)
	}
	irts.True(found, "the pending service must be rehydrated")
}

func (irts *IntegrationReposTestSuite) TestWashersDirectory() {
	washers := washersrp.New(irts.Pool)
	w, err := washers.Resolve(irts.Ctx, 7)
	irts.Require().NoError(err, "failed to resolve a seeded washer")
	irts.Equal("Dana", w.Name)
	irts.Equal(20.0, w.CommissionPercent)

	_, err = washers.Resolve(irts.Ctx, 1000)
	irts.ErrorIs(err, model.ErrUnknownWasher)

	ws, err := washers.List(irts.Ctx)
	irts.Require().NoError(err, "failed to list washers")
	irts.Require().Len(ws, 2)
	irts.Equal(int64(7), ws[0].ID)
	irts.Equal(int64(9), ws[1].ID)
}

func (irts *IntegrationReposTestSuite) TestLedgerRehydration() {
	rates, err := model.NewRateConfig(
		2000.0/60, 1000.0/60, 5000, 0, 10,
	)
	irts.Require().NoError(err)
	sessions := sessionsrp.New()
	ledger, err := parkinguc.New(
		rates, parkinguc.WithPersistence(irts.Pool, sessions),
	)
	irts.Require().NoError(err)

	now := time.Now()
	sid, err := ledger.Open(
		irts.Ctx, "33C333", model.VehicleClassMotorcycle, 1, now,
	)
	irts.Require().NoError(err, "failed to open a persisted session")

	// a fresh ledger, as after a process restart, reloads it
	restarted, err := parkinguc.New(
		rates, parkinguc.WithPersistence(irts.Pool, sessions),
	)
	irts.Require().NoError(err)
	err = restarted.Reload(irts.Ctx, model.Day(now).From)
	irts.Require().NoError(err, "failed to rehydrate the ledger")

	active := restarted.ListActive()
	found := false
	for _, s := range active {
		if s.ID == sid {
			found = true
			irts.Equal("33C333", s.Plate)
			irts.Equal(1, s.HelmetCount)
		}
	}
	irts.True(found, "the open session must survive a restart")

	_, err = restarted.Close(irts.Ctx, sid, now.Add(10*time.Minute))
	irts.Require().NoError(err, "failed to close after rehydration")
}

func (irts *IntegrationReposTestSuite) TestBoardRehydration() {
	services := servicesrp.New()
	washers := washersrp.New(irts.Pool)
	board, err := washinguc.New(
		washers, washinguc.WithPersistence(irts.Pool, services),
	)
	irts.Require().NoError(err)

	now := time.Now()
	sid, err := board.Create(
		irts.Ctx, "44D444", model.ServiceTypeBasic, 20000, now,
	)
	irts.Require().NoError(err, "failed to create a persisted job")
	err = board.Assign(irts.Ctx, sid, 9, now.Add(time.Minute))
	irts.Require().NoError(err, "failed to assign the job")

	restarted, err := washinguc.New(
		washers, washinguc.WithPersistence(irts.Pool, services),
	)
	irts.Require().NoError(err)
	err = restarted.Reload(irts.Ctx, model.Day(now).From)
	irts.Require().NoError(err, "failed to rehydrate the board")

	s, err := restarted.Get(sid)
	irts.Require().NoError(err, "the open job must survive a restart")
	irts.Equal(model.ServiceStatusInProgress, s.Status)
	irts.Require().NotNil(s.WasherID)
	irts.Equal(int64(9), *s.WasherID)

	err = restarted.Complete(irts.Ctx, sid, now.Add(2*time.Minute))
	irts.Require().NoError(err, "failed to complete after rehydration")
}
