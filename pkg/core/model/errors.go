// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "errors"

// Domain error taxonomy. These sentinel errors are returned by the
// use cases layer, wrapped with the relevant operation context, and
// classified for transmission by the cerr package in the adapters
// layer. None of them is retried automatically; a failed operation
// leaves its entity unchanged, so an operator-driven resubmission of
// the same command is always safe.
var (
	// ErrDuplicateActiveSession rejects an open operation for a
	// plate which already has an Active parking session.
	ErrDuplicateActiveSession = errors.New(
		"an active parking session already exists for this plate",
	)

	// ErrCapacityExceeded rejects an open operation while the number
	// of Active sessions has reached the configured maximum capacity.
	ErrCapacityExceeded = errors.New("parking capacity exceeded")

	// ErrNoActiveSession rejects a charge computation or a close
	// operation for a session which is not Active, including a
	// session which was already closed by a racing close command.
	ErrNoActiveSession = errors.New("no active parking session found")

	// ErrInvalidTransition rejects a washing service status change
	// which is not allowed by the service state machine, including a
	// command which lost a race against an identical command.
	ErrInvalidTransition = errors.New(
		"invalid washing service status transition",
	)

	// ErrUnknownWasher rejects an assign operation whose washer id
	// does not resolve in the worker directory.
	ErrUnknownWasher = errors.New("unknown washer")

	// ErrServiceNotFound rejects an operation which addresses a
	// washing service id that the board has never seen.
	ErrServiceNotFound = errors.New("washing service not found")
)
