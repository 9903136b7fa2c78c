// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// HourlyBucket is one row of the hourly breakdown report, aggregating
// the parking sessions and washing services which started during one
// bucket of the operating window. The structure is consumed verbatim
// by the CSV/PDF exporters, without further derivation.
type HourlyBucket struct {
	Window        Window  // the covered [From, To) interval
	Label         string  // human readable label, e.g. "08:00-09:00"
	ServiceCount  int     // washing jobs created in the bucket
	ParkingCount  int     // parking sessions entered in the bucket
	Revenue       Money   // sum of job prices and session costs
	AverageTicket float64 // Revenue over the transactions count, or 0
}

// DailySummary aggregates one operating day's completed activity.
// The structure is consumed verbatim by the CSV/PDF exporters.
type DailySummary struct {
	TotalParkings       int     // parking sessions entered in the day
	TotalWashing        int     // washing jobs created in the day
	ParkingRevenue      Money   // sum of parking session costs
	WashingRevenue      Money   // sum of washing job prices
	TotalRevenue        Money   // ParkingRevenue plus WashingRevenue
	AverageTicket       float64 // TotalRevenue over transactions, or 0
	OccupancyPercentage float64 // Active sessions over capacity, x100
}
