// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package clock provides the injectable Clock collaborator which
// supplies the current time to the adapters layer. The use cases
// layer takes each operation's reference instant as an explicit
// argument, so it stays a deterministic function of its inputs; the
// Clock interface exists for the callers of those operations, which
// must be able to substitute a fake time source in tests.
package clock

import "time"

// Clock abstracts a source of the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Sys is the system clock, delegating to time.Now.
type Sys struct{}

// Now implements the Clock interface using the time package.
func (Sys) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock which always reports the same instant. It is
// useful in tests and for replaying a historical report computation.
type Fixed time.Time

// Now implements the Clock interface, returning the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
