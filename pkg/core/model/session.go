// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionStatus specifies the lifecycle state of a ParkingSession.
// A session is Active from the open operation until the close
// operation completes it, freezing its exit time and total cost.
type SessionStatus int

// Valid values for the SessionStatus enum.
const (
	SessionStatusInvalid SessionStatus = iota // zero value is invalid

	SessionStatusActive    // vehicle is occupying a parking resource
	SessionStatusCompleted // session is closed and billed, terminal
)

// SessionStatusError indicates an invalid session status, containing
// the invalid status as an integer.
type SessionStatusError int

// Error implements the error interface.
func (e SessionStatusError) Error() string {
	return fmt.Sprintf("invalid session status: %d", int(e))
}

// ErrUnknownSessionStatus indicates that a given string may not be
// parsed as a valid/known session status.
var ErrUnknownSessionStatus = errors.New("unknown session status")

// String converts the SessionStatus enum to a string. Invalid status
// causes a panic.
func (s SessionStatus) String() string {
	switch s {
	case SessionStatusActive:
		return "active"
	case SessionStatusCompleted:
		return "completed"
	default:
		panic(SessionStatusError(s))
	}
}

// ParseSessionStatus parses the given string and returns a
// SessionStatus. For invalid strings, SessionStatusInvalid and
// ErrUnknownSessionStatus will be returned.
func ParseSessionStatus(s string) (SessionStatus, error) {
	switch s {
	case "active":
		return SessionStatusActive, nil
	case "completed":
		return SessionStatusCompleted, nil
	default:
		return SessionStatusInvalid, ErrUnknownSessionStatus
	}
}

// ParkingSession models a single vehicle's occupancy interval of a
// parking resource, from entry to exit. The Plate is the business key
// and at most one Active session may exist per plate at any time.
// Instances are treated as immutable values by the use cases layer,
// meaning that a state transition replaces the stored instance with
// an updated copy instead of mutating it in place, so concurrent
// readers always observe either the old or the new consistent state.
type ParkingSession struct {
	ID           uuid.UUID     // opaque unique identifier
	Plate        string        // normalized plate, business key
	VehicleClass VehicleClass  // selects the per-minute rate
	EntryTime    time.Time     // set by the open operation
	ExitTime     *time.Time    // set iff Status is Completed
	HelmetCount  int           // non-negative stored helmets count
	Status       SessionStatus // Active or Completed
	TotalCost    Money         // frozen by close, valid iff Completed
}

// NormalizePlate converts a raw plate string to its canonical form
// which is used as the business key: surrounding whitespace is
// trimmed, interior spaces and dashes are removed, and remaining
// characters are upper-cased. Two plate strings identify the same
// vehicle iff their normalized forms are equal.
func NormalizePlate(plate string) string {
	plate = strings.TrimSpace(plate)
	plate = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-':
			return -1
		default:
			return r
		}
	}, plate)
	return strings.ToUpper(plate)
}
