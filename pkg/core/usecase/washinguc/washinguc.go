// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package washinguc contains the service board use case which owns
// the WashingService lifecycle: creating a Pending job with its price
// frozen at creation time, assigning a worker which advances it to
// InProgress, and completing it. The state machine shape itself is
// recorded by the model package transition table; this package
// enforces it centrally under per-service serialization, so when
// several operator terminals race an identical command, exactly one
// caller wins and all others observe a clean rejection.
//
// Entity state is kept in memory as immutable job snapshots, with
// the same write-through persistence discipline as the parking
// ledger: a failed repository write aborts the in-memory transition.
package washinguc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/park-bill/pkg/core/kmutex"
	"github.com/momeni/park-bill/pkg/core/log"
	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/repo"
)

// UseCase represents the washing service board. It holds the worker
// directory collaborator, the in-memory job arena, and optionally a
// database connection pool with the services repository for
// write-through persistence.
type UseCase struct {
	washersrp repo.Washers

	pool       repo.Pool
	servicesrp repo.Services

	ids *kmutex.KMutex[uuid.UUID]

	mu       sync.RWMutex
	services map[uuid.UUID]*model.WashingService
}

// New instantiates a service board. The worker directory is a
// required collaborator since the assign operation cannot be
// validated without it. Optional parameters, such as the persistence
// repository, are passed as a series of functional options.
func New(w repo.Washers, opts ...Option) (*UseCase, error) {
	if w == nil {
		return nil, fmt.Errorf("nil worker directory")
	}
	uc := &UseCase{
		washersrp: w,
		ids:       kmutex.New[uuid.UUID](),
		services:  make(map[uuid.UUID]*model.WashingService),
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return uc, nil
}

// Create use case creates a Pending washing job for the given plate
// and returns its id. The price is resolved by the caller from the
// service type tier at this instant and is stored verbatim; it is
// never recomputed later, so tier price changes do not retroactively
// affect existing jobs.
func (uc *UseCase) Create(
	ctx context.Context,
	plate string, serviceType model.ServiceType,
	price model.Money, now time.Time,
) (uuid.UUID, error) {
	plate = model.NormalizePlate(plate)
	if plate == "" {
		return uuid.Nil, fmt.Errorf("empty plate")
	}
	if err := serviceType.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("service type: %w", err)
	}
	if price < 0 {
		return uuid.Nil, fmt.Errorf("negative price: %d", price)
	}
	s := &model.WashingService{
		ID:          uuid.New(),
		Plate:       plate,
		ServiceType: serviceType,
		Price:       price,
		Status:      model.ServiceStatusPending,
		CreatedAt:   now,
	}
	if err := uc.persist(ctx, s); err != nil {
		return uuid.Nil, fmt.Errorf("persisting service: %w", err)
	}
	uc.mu.Lock()
	uc.services[s.ID] = s
	uc.mu.Unlock()
	return s.ID, nil
}

// Assign use case advances the serviceID job from Pending to
// InProgress, fixing the washer who performs it and its start time.
// The washer id must resolve in the worker directory, otherwise the
// operation fails with model.ErrUnknownWasher. A job which is not
// Pending, including one which a racing assign has just advanced, is
// rejected with model.ErrInvalidTransition.
func (uc *UseCase) Assign(
	ctx context.Context,
	serviceID uuid.UUID, washerID int64, now time.Time,
) error {
	uc.ids.Lock(serviceID)
	defer uc.ids.Unlock(serviceID)

	cur, err := uc.snapshot(serviceID)
	if err != nil {
		return err
	}
	if !model.CanTransition(cur.Status, model.ServiceStatusInProgress) {
		return fmt.Errorf(
			"service %s is %s: %w",
			serviceID, cur.Status, model.ErrInvalidTransition,
		)
	}
	if _, err := uc.washersrp.Resolve(ctx, washerID); err != nil {
		return fmt.Errorf("resolving washer %d: %w", washerID, err)
	}
	started := now
	next := *cur
	next.Status = model.ServiceStatusInProgress
	next.WasherID = &washerID
	next.StartedAt = &started
	if err := uc.persist(ctx, &next); err != nil {
		return fmt.Errorf("persisting service: %w", err)
	}
	uc.mu.Lock()
	uc.services[serviceID] = &next
	uc.mu.Unlock()
	return nil
}

// Complete use case advances the serviceID job from InProgress to
// its terminal Completed status, fixing its completion time. A job
// which is not InProgress is rejected with
// model.ErrInvalidTransition.
func (uc *UseCase) Complete(
	ctx context.Context, serviceID uuid.UUID, now time.Time,
) error {
	uc.ids.Lock(serviceID)
	defer uc.ids.Unlock(serviceID)

	cur, err := uc.snapshot(serviceID)
	if err != nil {
		return err
	}
	if !model.CanTransition(cur.Status, model.ServiceStatusCompleted) {
		return fmt.Errorf(
			"service %s is %s: %w",
			serviceID, cur.Status, model.ErrInvalidTransition,
		)
	}
	completed := now
	next := *cur
	next.Status = model.ServiceStatusCompleted
	next.CompletedAt = &completed
	if err := uc.persist(ctx, &next); err != nil {
		return fmt.Errorf("persisting service: %w", err)
	}
	uc.mu.Lock()
	uc.services[serviceID] = &next
	uc.mu.Unlock()
	return nil
}

// Get returns a snapshot of the serviceID job.
func (uc *UseCase) Get(
	serviceID uuid.UUID,
) (*model.WashingService, error) {
	s, err := uc.snapshot(serviceID)
	if err != nil {
		return nil, err
	}
	c := *s
	return &c, nil
}

// ListByStatus returns a snapshot of all jobs with the given status,
// ordered by their creation time ascending.
func (uc *UseCase) ListByStatus(
	status model.ServiceStatus,
) []model.WashingService {
	uc.mu.RLock()
	jobs := make([]model.WashingService, 0, len(uc.services))
	for _, s := range uc.services {
		if s.Status == status {
			jobs = append(jobs, *s)
		}
	}
	uc.mu.RUnlock()
	sortByCreation(jobs)
	return jobs
}

// History returns a snapshot of all jobs whose creation time falls
// in the w window, ordered by their creation time ascending, for
// consumption by the reporting use case.
func (uc *UseCase) History(w model.Window) []model.WashingService {
	uc.mu.RLock()
	jobs := make([]model.WashingService, 0, len(uc.services))
	for _, s := range uc.services {
		if w.Contains(s.CreatedAt) {
			jobs = append(jobs, *s)
		}
	}
	uc.mu.RUnlock()
	sortByCreation(jobs)
	return jobs
}

// EarningsFor computes the earnings which the given commission
// percentage attributes to the worker of the serviceID job. The
// value is derived on demand and never stored, so a later commission
// rate correction does not require rewriting history.
func (uc *UseCase) EarningsFor(
	serviceID uuid.UUID, commissionPercent float64,
) (model.Money, error) {
	s, err := uc.snapshot(serviceID)
	if err != nil {
		return 0, err
	}
	return earnings(s.Price, commissionPercent), nil
}

// Reload rehydrates the in-memory arena from the persistence
// repository, loading all not-yet-Completed jobs plus the recent
// history since the `from` instant. It must be called before the
// board starts serving operations.
func (uc *UseCase) Reload(ctx context.Context, from time.Time) error {
	if uc.pool == nil {
		return nil
	}
	var loaded []model.WashingService
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.servicesrp.Conn(c)
		var err error
		loaded, err = q.LoadSince(ctx, from)
		return err
	})
	if err != nil {
		return fmt.Errorf("loading services: %w", err)
	}
	uc.mu.Lock()
	for i := range loaded {
		s := loaded[i]
		uc.services[s.ID] = &s
	}
	total := len(uc.services)
	uc.mu.Unlock()
	log.Info(
		ctx, "service board reloaded",
		slog.Int("services", total),
	)
	return nil
}

// snapshot returns the stored immutable state of the serviceID job.
func (uc *UseCase) snapshot(
	serviceID uuid.UUID,
) (*model.WashingService, error) {
	uc.mu.RLock()
	s, ok := uc.services[serviceID]
	uc.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf(
			"service %s: %w", serviceID, model.ErrServiceNotFound,
		)
	}
	return s, nil
}

// persist writes the given job state through the configured
// repository, if any.
func (uc *UseCase) persist(
	ctx context.Context, s *model.WashingService,
) error {
	if uc.pool == nil {
		return nil
	}
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.servicesrp.Conn(c)
		return q.Save(ctx, *s)
	})
}

func sortByCreation(jobs []model.WashingService) {
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
}
