// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package washinguc

import (
	"math"

	"github.com/momeni/park-bill/pkg/core/model"
)

// earnings computes the worker's share of a job price for the given
// commission percentage, rounded to the nearest Money unit.
func earnings(price model.Money, commissionPercent float64) model.Money {
	return model.Money(
		math.Round(float64(price) * commissionPercent / 100),
	)
}
