// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reportuc contains the reporting use case which aggregates
// the recorded parking and washing history into hourly buckets and
// daily summary figures. The aggregation is a pure, deterministic
// function of the histories which are read from the ledger and board
// on demand; no totals are maintained separately, so reports can
// never drift from the ledgers. Calling an aggregation twice with
// the same inputs yields an identical output.
package reportuc

import (
	"fmt"
	"time"

	"github.com/momeni/park-bill/pkg/core/model"
)

// ParkingHistory specifies the read-side of the parking ledger which
// the aggregations consume.
type ParkingHistory interface {
	// History returns the sessions whose entry time falls in the
	// given window, ordered by entry time.
	History(w model.Window) []model.ParkingSession

	// ActiveCount returns the number of Active sessions.
	ActiveCount() int

	// Rates returns the governing billing policy, which contributes
	// the capacity for the occupancy figure.
	Rates() model.RateConfig
}

// WashingHistory specifies the read-side of the service board which
// the aggregations consume.
type WashingHistory interface {
	// History returns the jobs whose creation time falls in the
	// given window, ordered by creation time.
	History(w model.Window) []model.WashingService
}

// LiveCharge resolves the revenue contribution of a still-Active
// parking session. Completed sessions always contribute their frozen
// total cost; whether Active sessions contribute their live charge
// at some reference instant, or nothing, is the caller's discretion.
type LiveCharge func(s model.ParkingSession) model.Money

// HourlyWindows returns fixed one-hour bucket windows covering the
// operating hours [openHour, closeHour) of the day which contains
// the day instant. With the default operating window of a 06:00 to
// 24:00 business day, it returns 18 buckets.
func HourlyWindows(day time.Time, openHour, closeHour int) []model.Window {
	y, m, d := day.Date()
	buckets := make([]model.Window, 0, closeHour-openHour)
	for h := openHour; h < closeHour; h++ {
		from := time.Date(y, m, d, h, 0, 0, 0, day.Location())
		buckets = append(buckets, model.Window{
			From: from, To: from.Add(time.Hour),
		})
	}
	return buckets
}

// HourlyBreakdown aggregates the given histories into the given
// bucket windows. For each bucket, the washing jobs created in the
// bucket and the parking sessions entered in the bucket are counted;
// the revenue sums the jobs' frozen prices with the sessions' total
// costs (Active sessions contribute per the live function, or
// nothing if live is nil); and the average ticket divides the
// revenue over the transactions count, or is 0 for an empty bucket.
func HourlyBreakdown(
	parking []model.ParkingSession,
	washing []model.WashingService,
	buckets []model.Window,
	live LiveCharge,
) []model.HourlyBucket {
	rows := make([]model.HourlyBucket, len(buckets))
	for i, w := range buckets {
		row := model.HourlyBucket{Window: w, Label: label(w)}
		for _, s := range parking {
			if !w.Contains(s.EntryTime) {
				continue
			}
			row.ParkingCount++
			row.Revenue += sessionRevenue(s, live)
		}
		for _, s := range washing {
			if !w.Contains(s.CreatedAt) {
				continue
			}
			row.ServiceCount++
			row.Revenue += s.Price
		}
		row.AverageTicket = average(
			row.Revenue, row.ServiceCount+row.ParkingCount,
		)
		rows[i] = row
	}
	return rows
}

// DailySummary aggregates the given histories into one operating
// day's summary figures. The occupancy percentage reflects the
// currently Active sessions over the maximum capacity.
func DailySummary(
	parking []model.ParkingSession,
	washing []model.WashingService,
	activeCount, maxCapacity int,
	live LiveCharge,
) model.DailySummary {
	sum := model.DailySummary{
		TotalParkings: len(parking),
		TotalWashing:  len(washing),
	}
	for _, s := range parking {
		sum.ParkingRevenue += sessionRevenue(s, live)
	}
	for _, s := range washing {
		sum.WashingRevenue += s.Price
	}
	sum.TotalRevenue = sum.ParkingRevenue + sum.WashingRevenue
	sum.AverageTicket = average(
		sum.TotalRevenue, sum.TotalParkings+sum.TotalWashing,
	)
	if maxCapacity > 0 {
		sum.OccupancyPercentage = float64(activeCount) /
			float64(maxCapacity) * 100
	}
	return sum
}

func sessionRevenue(
	s model.ParkingSession, live LiveCharge,
) model.Money {
	if s.Status == model.SessionStatusCompleted {
		return s.TotalCost
	}
	if live != nil {
		return live(s)
	}
	return 0
}

func average(revenue model.Money, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(revenue) / float64(count)
}

func label(w model.Window) string {
	toH, toM := w.To.Hour(), w.To.Minute()
	if toH == 0 && toM == 0 {
		// a bucket ending at midnight reads as 24:00
		toH = 24
	}
	return fmt.Sprintf(
		"%02d:%02d-%02d:%02d",
		w.From.Hour(), w.From.Minute(), toH, toM,
	)
}
