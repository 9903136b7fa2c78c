// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Washer models a worker of the external worker directory who may be
// assigned to washing services. The CommissionPercent is the share of
// a job price which is attributed as the worker's earnings; it is a
// directory attribute and is never copied into the WashingService, so
// a later commission correction does not require rewriting history.
type Washer struct {
	ID                int64   // worker directory key
	Name              string  // display name for the job board
	CommissionPercent float64 // earnings share, in percent
}
