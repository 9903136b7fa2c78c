// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reportuc

import (
	"fmt"
	"time"

	"github.com/momeni/park-bill/pkg/core/model"
	"github.com/momeni/park-bill/pkg/core/usecase/parkinguc"
)

// Default operating hours of the hourly bucketing scheme.
const (
	DefaultOpenHour  = 6
	DefaultCloseHour = 24
)

// UseCase represents the reporting use case, binding the pure
// aggregation functions to the ledger and board read APIs and to an
// hourly bucketing scheme over the configured operating hours.
type UseCase struct {
	parking ParkingHistory
	washing WashingHistory

	openHour, closeHour int
}

// New instantiates a reporting use case over the given ledger and
// board read APIs. Optional parameters, such as the operating
// window, are passed as a series of functional options.
func New(
	p ParkingHistory, w WashingHistory, opts ...Option,
) (*UseCase, error) {
	if p == nil || w == nil {
		return nil, fmt.Errorf("nil parking or washing history")
	}
	uc := &UseCase{parking: p, washing: w}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.closeHour == 0 {
		uc.openHour = DefaultOpenHour
		uc.closeHour = DefaultCloseHour
	}
	return uc, nil
}

// Hourly reads the day's histories and aggregates them into the
// hourly buckets of the operating window. Active sessions contribute
// their live charge at the now instant.
func (uc *UseCase) Hourly(day, now time.Time) []model.HourlyBucket {
	w := model.Day(day)
	return HourlyBreakdown(
		uc.parking.History(w), uc.washing.History(w),
		HourlyWindows(day, uc.openHour, uc.closeHour),
		uc.liveAt(now),
	)
}

// Daily reads the day's histories and aggregates them into the daily
// summary. Active sessions contribute their live charge at the now
// instant and the current occupancy reflects the Active sessions
// over the policy's maximum capacity.
func (uc *UseCase) Daily(day, now time.Time) model.DailySummary {
	w := model.Day(day)
	return DailySummary(
		uc.parking.History(w), uc.washing.History(w),
		uc.parking.ActiveCount(), uc.parking.Rates().MaxCapacity,
		uc.liveAt(now),
	)
}

// liveAt returns a LiveCharge which bills Active sessions as if they
// were closed at the now instant, using the ledger's policy.
func (uc *UseCase) liveAt(now time.Time) LiveCharge {
	rates := uc.parking.Rates()
	return func(s model.ParkingSession) model.Money {
		return parkinguc.Charge(
			rates, s.VehicleClass, s.HelmetCount, s.EntryTime, now,
		)
	}
}
