// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr provides the categorized errors. Each domain error
// which crosses from the use cases layer to the adapters layer is
// wrapped by a category which maps to one HTTP status code, so the
// RESTful adapter can serialize it without a type switch over all
// domain error values. The Classify function knows the mapping from
// the model package sentinel errors to their categories.
package cerr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/momeni/park-bill/pkg/core/model"
)

// Error wraps a causing error with its HTTP-level category.
type Error struct {
	Err            error
	HTTPStatusCode int
}

// Unwrap returns the wrapped causing error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// BadRequest categorizes err as a client-side invalid request error.
func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

// NotFound categorizes err as a missing entity error.
func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

// Conflict categorizes err as a state conflict error, such as a
// transition command which lost a race or a duplicate open request.
func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// Classify wraps a domain error with its category based on the error
// taxonomy of the model package. Errors which are already categorized
// are returned unchanged and unrecognized errors are returned as is
// too, which the adapter layer reports as an internal server error.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	switch {
	case errors.Is(err, model.ErrDuplicateActiveSession),
		errors.Is(err, model.ErrCapacityExceeded),
		errors.Is(err, model.ErrInvalidTransition):
		return Conflict(err)
	case errors.Is(err, model.ErrNoActiveSession),
		errors.Is(err, model.ErrServiceNotFound),
		errors.Is(err, model.ErrUnknownWasher):
		return NotFound(err)
	case errors.Is(err, model.ErrInvalidRateConfig),
		errors.Is(err, model.ErrUnknownVehicleClass),
		errors.Is(err, model.ErrUnknownServiceType),
		errors.Is(err, model.ErrUnknownServiceStatus):
		return BadRequest(err)
	default:
		return err
	}
}
