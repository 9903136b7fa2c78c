// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package washinguc_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/usecase/washinguc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory is an in-memory worker directory.
type fakeDirectory map[int64]model.Washer

func (d fakeDirectory) Resolve(
	_ context.Context, washerID int64,
) (*model.Washer, error) {
	w, ok := d[washerID]
	if !ok {
		return nil, fmt.Errorf(
			"washer %d: %w", washerID, model.ErrUnknownWasher,
		)
	}
	return &w, nil
}

func (d fakeDirectory) List(
	_ context.Context,
) ([]model.Washer, error) {
	ws := make([]model.Washer, 0, len(d))
	for _, w := range d {
		ws = append(ws, w)
	}
	return ws, nil
}

func testDirectory() fakeDirectory {
	return fakeDirectory{
		7: {ID: 7, Name: "Dana", CommissionPercent: 20},
		9: {ID: 9, Name: "Robin", CommissionPercent: 25},
	}
}

func newBoard(t *testing.T) *washinguc.UseCase {
	t.Helper()
	uc, err := washinguc.New(testDirectory())
	require.NoError(t, err, "instantiating service board")
	return uc
}

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 7, hour, min, 0, 0, time.UTC)
}

func TestCreateAssignCompleteAndEarnings(t *testing.T) {
	ctx := context.Background()
	uc := newBoard(t)

	sid, err := uc.Create(
		ctx, "abc-123", model.ServiceTypePremium, 45000, at(9, 0),
	)
	require.NoError(t, err)

	s, err := uc.Get(sid)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceStatusPending, s.Status)
	assert.Equal(t, "ABC123", s.Plate)
	assert.Equal(t, model.Money(45000), s.Price)
	assert.Nil(t, s.WasherID)

	require.NoError(t, uc.Assign(ctx, sid, 7, at(9, 10)))
	s, err = uc.Get(sid)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceStatusInProgress, s.Status)
	require.NotNil(t, s.WasherID)
	assert.EqualValues(t, 7, *s.WasherID)
	require.NotNil(t, s.StartedAt)
	assert.Equal(t, at(9, 10), *s.StartedAt)

	require.NoError(t, uc.Complete(ctx, sid, at(9, 40)))
	s, err = uc.Get(sid)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceStatusCompleted, s.Status)
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, at(9, 40), *s.CompletedAt)

	got, err := uc.EarningsFor(sid, 20)
	require.NoError(t, err)
	assert.Equal(t, model.Money(9000), got)
}

func TestAssignRejectsUnknownWasher(t *testing.T) {
	ctx := context.Background()
	uc := newBoard(t)
	sid, err := uc.Create(
		ctx, "W-1", model.ServiceTypeBasic, 20000, at(9, 0),
	)
	require.NoError(t, err)
	err = uc.Assign(ctx, sid, 12345, at(9, 5))
	assert.ErrorIs(t, err, model.ErrUnknownWasher)

	// the failed assign leaves the job Pending and assignable
	s, err := uc.Get(sid)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceStatusPending, s.Status)
	assert.NoError(t, uc.Assign(ctx, sid, 7, at(9, 6)))
}

func TestCompleteBeforeAssignIsRejected(t *testing.T) {
	ctx := context.Background()
	uc := newBoard(t)
	sid, err := uc.Create(
		ctx, "W-2", model.ServiceTypeDeluxe, 80000, at(9, 0),
	)
	require.NoError(t, err)
	err = uc.Complete(ctx, sid, at(9, 30))
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestStatusNeverRegresses(t *testing.T) {
	ctx := context.Background()
	uc := newBoard(t)
	sid, err := uc.Create(
		ctx, "W-3", model.ServiceTypeBasic, 20000, at(9, 0),
	)
	require.NoError(t, err)
	require.NoError(t, uc.Assign(ctx, sid, 7, at(9, 10)))

	// a second assign is not absorbed, even with the same washer
	err = uc.Assign(ctx, sid, 7, at(9, 15))
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	require.NoError(t, uc.Complete(ctx, sid, at(9, 30)))
	err = uc.Complete(ctx, sid, at(9, 35))
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	err = uc.Assign(ctx, sid, 9, at(9, 40))
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	// the winning transitions' timestamps stay frozen
	s, err := uc.Get(sid)
	require.NoError(t, err)
	assert.Equal(t, at(9, 10), *s.StartedAt)
	assert.Equal(t, at(9, 30), *s.CompletedAt)
	assert.EqualValues(t, 7, *s.WasherID)
}

func TestConcurrentAssignOneWinner(t *testing.T) {
	ctx := context.Background()
	uc := newBoard(t)
	sid, err := uc.Create(
		ctx, "RACE-1", model.ServiceTypeBasic, 20000, at(9, 0),
	)
	require.NoError(t, err)
	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(i int) {
			defer wg.Done()
			washer := int64(7)
			if i%2 == 1 {
				washer = 9
			}
			errs[i] = uc.Assign(ctx, sid, washer, at(9, 5))
		}(i)
	}
	wg.Wait()
	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, model.ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, won, "exactly one assign must win the race")
}

func TestOperationsOnMissingServiceFail(t *testing.T) {
	ctx := context.Background()
	uc := newBoard(t)
	missing := uuid.New()
	assert.ErrorIs(
		t, uc.Assign(ctx, missing, 7, at(9, 0)),
		model.ErrServiceNotFound,
	)
	assert.ErrorIs(
		t, uc.Complete(ctx, missing, at(9, 0)),
		model.ErrServiceNotFound,
	)
	_, err := uc.EarningsFor(missing, 20)
	assert.ErrorIs(t, err, model.ErrServiceNotFound)
}

func TestCreateValidatesArguments(t *testing.T) {
	ctx := context.Background()
	uc := newBoard(t)
	_, err := uc.Create(
		ctx, " ", model.ServiceTypeBasic, 20000, at(9, 0),
	)
	assert.Error(t, err, "blank plate must be rejected")
	_, err = uc.Create(
		ctx, "V-1", model.ServiceTypeInvalid, 20000, at(9, 0),
	)
	assert.Error(t, err, "invalid service type must be rejected")
	_, err = uc.Create(
		ctx, "V-1", model.ServiceTypeBasic, -5, at(9, 0),
	)
	assert.Error(t, err, "negative price must be rejected")
}

func TestListByStatusAndHistory(t *testing.T) {
	ctx := context.Background()
	uc := newBoard(t)
	ids := make([]uuid.UUID, 3)
	for i := range ids {
		var err error
		ids[i], err = uc.Create(
			ctx, fmt.Sprintf("P-%d", i), model.ServiceTypeBasic,
			20000, at(9, 10*i),
		)
		require.NoError(t, err)
	}
	require.NoError(t, uc.Assign(ctx, ids[1], 7, at(9, 30)))
	require.NoError(t, uc.Complete(ctx, ids[1], at(9, 50)))

	pending := uc.ListByStatus(model.ServiceStatusPending)
	require.Len(t, pending, 2)
	assert.Equal(t, "P0", pending[0].Plate)
	assert.Equal(t, "P2", pending[1].Plate)
	completed := uc.ListByStatus(model.ServiceStatusCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, "P1", completed[0].Plate)

	hist := uc.History(model.Window{From: at(9, 0), To: at(9, 15)})
	require.Len(t, hist, 2, "history filters by creation time")
}

func TestPriceIsFrozenAtCreation(t *testing.T) {
	ctx := context.Background()
	uc := newBoard(t)
	// two jobs of the same tier created at different prices keep
	// their own frozen price; the board never recomputes it
	first, err := uc.Create(
		ctx, "F-1", model.ServiceTypePremium, 45000, at(9, 0),
	)
	require.NoError(t, err)
	second, err := uc.Create(
		ctx, "F-2", model.ServiceTypePremium, 50000, at(10, 0),
	)
	require.NoError(t, err)

	s1, err := uc.Get(first)
	require.NoError(t, err)
	s2, err := uc.Get(second)
	require.NoError(t, err)
	assert.Equal(t, model.Money(45000), s1.Price)
	assert.Equal(t, model.Money(50000), s2.Price)
}
