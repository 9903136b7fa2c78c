// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRateConfig indicates that a RateConfig instance could not
// be constructed because some rate, fee, or capacity was out of its
// acceptable range. The wrapping error describes the offending field.
var ErrInvalidRateConfig = errors.New("invalid rate config")

// RateConfig is the immutable billing policy: per-minute parking
// rates by vehicle class, the helmet storage unit fee, the
// free-minutes grace threshold, and the parking lot capacity.
// A RateConfig is validated once by NewRateConfig and passed by value
// into the ledger/board constructors afterwards; a changed policy is
// a new value, never an in-place mutation, so an already constructed
// ledger keeps billing against the policy it was created with.
//
// The per-minute rates are fractional because operators quote hourly
// figures (e.g., 2000 per hour is 33.33 per minute); billing always
// happens in whole-hour steps, so only the HourlyRate derived Money
// value ever reaches a charge.
type RateConfig struct {
	CarRatePerMinute        float64 // parking rate for cars
	MotorcycleRatePerMinute float64 // parking rate for motorcycles
	HelmetUnitCost          Money   // flat fee per stored helmet
	FreeMinutesThreshold    int     // grace minutes billed as zero
	MaxCapacity             int     // maximum concurrent Active sessions
}

// NewRateConfig validates the given policy values and returns a
// RateConfig instance. Negative rates, fees, or thresholds and a
// capacity below one are rejected with an error wrapping the
// ErrInvalidRateConfig sentinel.
func NewRateConfig(
	carRate, motoRate float64, helmetCost Money,
	freeMinutes, maxCapacity int,
) (RateConfig, error) {
	rc := RateConfig{
		CarRatePerMinute:        carRate,
		MotorcycleRatePerMinute: motoRate,
		HelmetUnitCost:          helmetCost,
		FreeMinutesThreshold:    freeMinutes,
		MaxCapacity:             maxCapacity,
	}
	if err := rc.Validate(); err != nil {
		return RateConfig{}, err
	}
	return rc, nil
}

// Validate returns nil if all policy values are in their acceptable
// ranges, otherwise an error wrapping ErrInvalidRateConfig.
func (rc RateConfig) Validate() error {
	switch {
	case rc.CarRatePerMinute < 0:
		return fmt.Errorf(
			"%w: negative car rate: %v",
			ErrInvalidRateConfig, rc.CarRatePerMinute,
		)
	case rc.MotorcycleRatePerMinute < 0:
		return fmt.Errorf(
			"%w: negative motorcycle rate: %v",
			ErrInvalidRateConfig, rc.MotorcycleRatePerMinute,
		)
	case rc.HelmetUnitCost < 0:
		return fmt.Errorf(
			"%w: negative helmet unit cost: %d",
			ErrInvalidRateConfig, rc.HelmetUnitCost,
		)
	case rc.FreeMinutesThreshold < 0:
		return fmt.Errorf(
			"%w: negative free minutes threshold: %d",
			ErrInvalidRateConfig, rc.FreeMinutesThreshold,
		)
	case rc.MaxCapacity < 1:
		return fmt.Errorf(
			"%w: max capacity (%d) must be at least 1",
			ErrInvalidRateConfig, rc.MaxCapacity,
		)
	default:
		return nil
	}
}

// RatePerMinute returns the per-minute parking rate of the given
// vehicle class. Invalid vehicle class causes a panic since callers
// are expected to have validated their class beforehand.
func (rc RateConfig) RatePerMinute(v VehicleClass) float64 {
	switch v {
	case VehicleClassCar:
		return rc.CarRatePerMinute
	case VehicleClassMotorcycle:
		return rc.MotorcycleRatePerMinute
	default:
		panic(VehicleClassError(v))
	}
}

// HourlyRate returns the hourly parking rate of the given vehicle
// class, which is the per-minute rate scaled to a full hour and
// rounded to the nearest Money unit. Billing is performed in
// whole-hour steps (see the parkinguc package), so this is the rate
// which each billable hour contributes.
func (rc RateConfig) HourlyRate(v VehicleClass) Money {
	return Money(math.Round(rc.RatePerMinute(v) * 60))
}
