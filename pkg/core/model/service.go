// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ServiceStatus specifies the lifecycle state of a WashingService.
// The status only advances along Pending, InProgress, and Completed
// and never regresses. The allowed transitions are recorded by the
// serviceTransitions table and queried by the CanTransition function,
// so there is exactly one place which knows the state machine shape.
type ServiceStatus int

// Valid values for the ServiceStatus enum.
const (
	ServiceStatusInvalid ServiceStatus = iota // zero value is invalid

	ServiceStatusPending    // created, waiting for a washer
	ServiceStatusInProgress // assigned to a washer, being washed
	ServiceStatusCompleted  // wash is done, terminal
)

// ServiceStatusError indicates an invalid service status, containing
// the invalid status as an integer.
type ServiceStatusError int

// Error implements the error interface.
func (e ServiceStatusError) Error() string {
	return fmt.Sprintf("invalid service status: %d", int(e))
}

// ErrUnknownServiceStatus indicates that a given string may not be
// parsed as a valid/known service status.
var ErrUnknownServiceStatus = errors.New("unknown service status")

// Validate returns nil if ServiceStatus value is valid. For invalid
// values, an instance of the ServiceStatusError will be returned.
func (s ServiceStatus) Validate() error {
	switch s {
	case ServiceStatusPending, ServiceStatusInProgress,
		ServiceStatusCompleted:
		return nil
	default:
		return ServiceStatusError(s)
	}
}

// String converts the ServiceStatus enum to a string. Invalid status
// causes a panic.
func (s ServiceStatus) String() string {
	switch s {
	case ServiceStatusPending:
		return "pending"
	case ServiceStatusInProgress:
		return "in-progress"
	case ServiceStatusCompleted:
		return "completed"
	default:
		panic(ServiceStatusError(s))
	}
}

// ParseServiceStatus parses the given string and returns a
// ServiceStatus. For invalid strings, ServiceStatusInvalid and
// ErrUnknownServiceStatus will be returned.
func ParseServiceStatus(s string) (ServiceStatus, error) {
	switch s {
	case "pending":
		return ServiceStatusPending, nil
	case "in-progress":
		return ServiceStatusInProgress, nil
	case "completed":
		return ServiceStatusCompleted, nil
	default:
		return ServiceStatusInvalid, ErrUnknownServiceStatus
	}
}

// serviceTransitions records the allowed status transitions as a
// directed graph. Terminal states map to an empty slice.
var serviceTransitions = map[ServiceStatus][]ServiceStatus{
	ServiceStatusPending:    {ServiceStatusInProgress},
	ServiceStatusInProgress: {ServiceStatusCompleted},
	ServiceStatusCompleted:  {},
}

// CanTransition reports whether moving a WashingService from the
// `from` status to the `to` status is an allowed transition.
// Self transitions are not allowed; a repeated assign or complete
// command must be rejected, not absorbed, so a racing caller can
// learn that another caller has won.
func CanTransition(from, to ServiceStatus) bool {
	for _, s := range serviceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ServiceType specifies the washing service tier which resolves the
// job price at creation time.
type ServiceType int

// Valid values for the ServiceType enum.
const (
	ServiceTypeInvalid ServiceType = iota // zero value is invalid

	ServiceTypeBasic   // exterior wash
	ServiceTypePremium // exterior and interior wash
	ServiceTypeDeluxe  // full detail
)

// ErrUnknownServiceType indicates that a given string may not be
// parsed as a valid/known service type.
var ErrUnknownServiceType = errors.New("unknown service type")

// ServiceTypeError indicates an invalid service type, containing the
// invalid type as an integer.
type ServiceTypeError int

// Error implements the error interface.
func (e ServiceTypeError) Error() string {
	return fmt.Sprintf("invalid service type: %d", int(e))
}

// Validate returns nil if ServiceType value is valid. For invalid
// values, an instance of the ServiceTypeError will be returned.
func (t ServiceType) Validate() error {
	switch t {
	case ServiceTypeBasic, ServiceTypePremium, ServiceTypeDeluxe:
		return nil
	default:
		return ServiceTypeError(t)
	}
}

// String converts the ServiceType enum to a string. Invalid type
// causes a panic.
func (t ServiceType) String() string {
	switch t {
	case ServiceTypeBasic:
		return "basic"
	case ServiceTypePremium:
		return "premium"
	case ServiceTypeDeluxe:
		return "deluxe"
	default:
		panic(ServiceTypeError(t))
	}
}

// ParseServiceType parses the given string and returns a ServiceType.
// For invalid strings, ServiceTypeInvalid and ErrUnknownServiceType
// will be returned.
func ParseServiceType(t string) (ServiceType, error) {
	switch t {
	case "basic":
		return ServiceTypeBasic, nil
	case "premium":
		return ServiceTypePremium, nil
	case "deluxe":
		return ServiceTypeDeluxe, nil
	default:
		return ServiceTypeInvalid, ErrUnknownServiceType
	}
}

// WashingService models a single billable wash job which is assigned
// to exactly one worker. The Price is resolved from the service type
// tier at creation time and stored verbatim; later tier price changes
// never retroactively affect existing jobs. Like the ParkingSession,
// instances are treated as immutable values by the use cases layer
// and each state transition replaces the stored instance with an
// updated copy.
type WashingService struct {
	ID          uuid.UUID     // opaque unique identifier
	Plate       string        // normalized plate of the washed vehicle
	ServiceType ServiceType   // tier which resolved the price
	Price       Money         // frozen at creation
	WasherID    *int64        // set by assign, fixed afterwards
	Status      ServiceStatus // Pending, InProgress, or Completed
	CreatedAt   time.Time     // set by the create operation
	StartedAt   *time.Time    // set iff Status advanced to InProgress
	CompletedAt *time.Time    // set iff Status is Completed
}
