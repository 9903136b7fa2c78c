// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package parkinguc contains the parking ledger use case which owns
// the ParkingSession lifecycle: opening a session when a vehicle
// enters, computing its live charge, and closing it when the vehicle
// exits, freezing the exit time and total cost. It also serves the
// read side with active-session listing and windowed history for the
// reporting use case.
//
// The authoritative entity state is kept in memory as immutable
// session snapshots, so read operations never block behind a writer.
// Mutating operations are serialized per normalized plate (the
// business key) by a keyed mutex, so at most one open may succeed
// per plate while a session is Active and at most one close may
// freeze a session's total cost, while unrelated plates never
// contend. When a persistence pool is configured, every committed
// state is written through, and a failed write aborts the in-memory
// transition, keeping each operation all-or-nothing per entity.
package parkinguc

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

// UseCase represents the parking ledger. It holds the billing policy
// which was locked in at construction time, the in-memory session
// arena, and optionally a database connection pool with the sessions
// repository for write-through persistence.
type UseCase struct {
	rates model.RateConfig

	pool       repo.Pool
	sessionsrp repo.Sessions

	plates *kmutex.KMutex[string]

	mu       sync.RWMutex
	sessions map[uuid.UUID]*model.ParkingSession
	byPlate  map[string]uuid.UUID // plate -> Active session id
}

// New instantiates a parking ledger governed by the given rates.
// The rates value is validated and copied; later policy changes are
// represented by constructing a new ledger, never by mutation.
// Optional parameters, such as the persistence repository, are
// passed as a series of functional options.
func New(rates model.RateConfig, opts ...Option) (*UseCase, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	uc := &UseCase{
		rates:    rates,
		plates:   kmutex.New[string](),
		sessions: make(map[uuid.UUID]*model.ParkingSession),
		byPlate:  make(map[string]uuid.UUID),
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	return uc, nil
}

// Rates returns the billing policy which governs this ledger.
func (uc *UseCase) Rates() model.RateConfig {
	return uc.rates
}

// Open use case creates a new Active parking session for the given
// plate and returns its id. The plate is normalized first since it is
// the business key. The operation fails with
// model.ErrDuplicateActiveSession if an Active session already exists
// for the plate and with model.ErrCapacityExceeded if the number of
// Active sessions has reached the configured maximum capacity.
func (uc *UseCase) Open(
	ctx context.Context,
	plate string, class model.VehicleClass,
	helmetCount int, now time.Time,
) (uuid.UUID, error) {
	plate = model.NormalizePlate(plate)
	if plate == "" {
		return uuid.Nil, fmt.Errorf("empty plate")
	}
	if err := class.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("vehicle class: %w", err)
	}
	if helmetCount < 0 {
		return uuid.Nil, fmt.Errorf(
			"negative helmet count: %d", helmetCount,
		)
	}
	uc.plates.Lock(plate)
	defer uc.plates.Unlock(plate)

	s := &model.ParkingSession{
		ID:           uuid.New(),
		Plate:        plate,
		VehicleClass: class,
		EntryTime:    now,
		HelmetCount:  helmetCount,
		Status:       model.SessionStatusActive,
	}
	if err := uc.reserve(s); err != nil {
		return uuid.Nil, err
	}
	if err := uc.persist(ctx, s); err != nil {
		uc.unreserve(s)
		return uuid.Nil, fmt.Errorf("persisting session: %w", err)
	}
	return s.ID, nil
}

// reserve atomically checks the per-plate uniqueness and capacity
// invariants and registers the s session in the arena. The capacity
// check and the insertion share one critical section, so concurrent
// open operations for distinct plates cannot overshoot the capacity.
func (uc *UseCase) reserve(s *model.ParkingSession) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.byPlate[s.Plate]; ok {
		return fmt.Errorf(
			"plate %q: %w", s.Plate, model.ErrDuplicateActiveSession,
		)
	}
	if len(uc.byPlate) >= uc.rates.MaxCapacity {
		return fmt.Errorf(
			"%d active sessions: %w",
			len(uc.byPlate), model.ErrCapacityExceeded,
		)
	}
	uc.sessions[s.ID] = s
	uc.byPlate[s.Plate] = s.ID
	return nil
}

// unreserve removes a reserved session again, after its persistence
// has failed, so the failed open leaves no observable trace.
func (uc *UseCase) unreserve(s *model.ParkingSession) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.sessions, s.ID)
	delete(uc.byPlate, s.Plate)
}

// CurrentCharge computes the charge which closing the sessionID
// session at the now instant would bill, without any side effect, so
// it may be polled for a live-updating display at any cadence.
// It fails with model.ErrNoActiveSession if the session is missing
// or is not Active.
func (uc *UseCase) CurrentCharge(
	sessionID uuid.UUID, now time.Time,
) (model.Money, error) {
	uc.mu.RLock()
	s, ok := uc.sessions[sessionID]
	uc.mu.RUnlock()
	if !ok || s.Status != model.SessionStatusActive {
		return 0, fmt.Errorf(
			"session %s: %w", sessionID, model.ErrNoActiveSession,
		)
	}
	return Charge(uc.rates, s.VehicleClass, s.HelmetCount, s.EntryTime, now), nil
}

// Close use case computes the sessionID session's charge at the now
// instant, transitions it to Completed, freezes its exit time and
// total cost, and returns the charged amount. It fails with
// model.ErrNoActiveSession if the session is missing or not Active,
// which makes a double-submitted close observe a clean failure
// instead of double charging.
func (uc *UseCase) Close(
	ctx context.Context, sessionID uuid.UUID, now time.Time,
) (model.Money, error) {
	uc.mu.RLock()
	cur, ok := uc.sessions[sessionID]
	uc.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf(
			"session %s: %w", sessionID, model.ErrNoActiveSession,
		)
	}
	plate := cur.Plate
	uc.plates.Lock(plate)
	defer uc.plates.Unlock(plate)

	// reload under the plate lock; a racing close may have won
	uc.mu.RLock()
	cur, ok = uc.sessions[sessionID]
	uc.mu.RUnlock()
	if !ok || cur.Status != model.SessionStatusActive {
		return 0, fmt.Errorf(
			"session %s: %w", sessionID, model.ErrNoActiveSession,
		)
	}
	exit := now
	closed := *cur
	closed.Status = model.SessionStatusCompleted
	closed.ExitTime = &exit
	closed.TotalCost = Charge(
		uc.rates, cur.VehicleClass, cur.HelmetCount, cur.EntryTime, now,
	)
	if err := uc.persist(ctx, &closed); err != nil {
		return 0, fmt.Errorf("persisting session: %w", err)
	}
	uc.mu.Lock()
	uc.sessions[sessionID] = &closed
	delete(uc.byPlate, plate)
	uc.mu.Unlock()
	return closed.TotalCost, nil
}

// ListActive returns a snapshot of all Active sessions, ordered by
// their entry time ascending.
func (uc *UseCase) ListActive() []model.ParkingSession {
	uc.mu.RLock()
	active := make([]model.ParkingSession, 0, len(uc.byPlate))
	for _, id := range uc.byPlate {
		active = append(active, *uc.sessions[id])
	}
	uc.mu.RUnlock()
	sort.Slice(active, func(i, j int) bool {
		return active[i].EntryTime.Before(active[j].EntryTime)
	})
	return active
}

// ActiveCount returns the number of Active sessions.
func (uc *UseCase) ActiveCount() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.byPlate)
}

// History returns a snapshot of all sessions, Active and Completed,
// whose entry time falls in the w window, ordered by their entry
// time ascending, for consumption by the reporting use case.
func (uc *UseCase) History(w model.Window) []model.ParkingSession {
	uc.mu.RLock()
	hist := make([]model.ParkingSession, 0, len(uc.sessions))
	for _, s := range uc.sessions {
		if w.Contains(s.EntryTime) {
			hist = append(hist, *s)
		}
	}
	uc.mu.RUnlock()
	sort.Slice(hist, func(i, j int) bool {
		return hist[i].EntryTime.Before(hist[j].EntryTime)
	})
	return hist
}

// Reload rehydrates the in-memory arena from the persistence
// repository, loading all Active sessions plus the recent history
// since the `from` instant. It must be called before the ledger
// starts serving operations; it does not merge with concurrently
// opened sessions.
func (uc *UseCase) Reload(ctx context.Context, from time.Time) error {
	if uc.pool == nil {
		return nil
	}
	var loaded []model.ParkingSession
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.sessionsrp.Conn(c)
		var err error
		loaded, err = q.LoadSince(ctx, from)
		return err
	})
	if err != nil {
		return fmt.Errorf("loading sessions: %w", err)
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for i := range loaded {
		s := loaded[i]
		uc.sessions[s.ID] = &s
		if s.Status != model.SessionStatusActive {
			continue
		}
		if prev, ok := uc.byPlate[s.Plate]; ok {
			// two Active rows for one plate violate the ledger
			// invariant; keep the newer session
			if uc.sessions[prev].EntryTime.After(s.EntryTime) {
				continue
			}
		}
		uc.byPlate[s.Plate] = s.ID
	}
	log.Info(
		ctx, "parking ledger reloaded",
		slog.Int("sessions", len(loaded)),
		slog.Int("active", len(uc.byPlate)),
	)
	return nil
}

// persist writes the given session state through the configured
// repository, if any.
func (uc *UseCase) persist(
	ctx context.Context, s *model.ParkingSession,
) error {
	if uc.pool == nil {
		return nil
	}
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.sessionsrp.Conn(c)
		return q.Save(ctx, *s)
	})
}
