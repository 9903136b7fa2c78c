// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parkinguc

import (
	"time"

	"github.com/momeni/park-bill/pkg/core/model"
)

// Charge computes the parking charge of a session which entered at
// the entry instant and is billed at the now instant, under the
// given rates policy.
//
// The parking portion follows a fixed operational rule: a partial
// hour always bills as a full hour, so the elapsed duration is
// rounded up to whole hours with a minimum of one billable hour,
// including durations under one minute. An elapsed duration within
// the free-minutes grace threshold bills a zero parking portion.
// The stored helmets fee is flat per helmet and applies regardless
// of the grace threshold.
//
// A now instant before the entry instant is clamped to a zero
// elapsed duration, so a skewed caller clock cannot produce a
// negative charge.
func Charge(
	rates model.RateConfig, class model.VehicleClass,
	helmetCount int, entry, now time.Time,
) model.Money {
	elapsed := now.Sub(entry)
	if elapsed < 0 {
		elapsed = 0
	}
	var parking model.Money
	free := time.Duration(rates.FreeMinutesThreshold) * time.Minute
	if elapsed > free {
		hours := int64((elapsed + time.Hour - 1) / time.Hour)
		if hours < 1 {
			hours = 1
		}
		parking = model.Money(hours) * rates.HourlyRate(class)
	}
	return parking + model.Money(helmetCount)*rates.HelmetUnitCost
}
