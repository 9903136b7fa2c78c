// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// The central entities are the ParkingSession (a vehicle occupying a
// parking resource over a time interval) and the WashingService (a
// discrete wash job assigned to one worker), with the RateConfig
// value object describing the billing policy which applies to them.
package model

// Money represents a monetary amount in the smallest currency unit.
// All charges in this project are integral (e.g., 2000 per hour or
// 45000 per washing job), so an int64 covers the practical range
// without floating point rounding concerns. Fractional figures, such
// as an average ticket over several transactions, are reported as
// float64 by the reporting models and are never stored back.
type Money int64
