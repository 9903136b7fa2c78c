// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "time"

// Window represents a half-open time interval [From, To) which is
// used for filtering entity histories and labeling report buckets.
type Window struct {
	From time.Time // inclusive lower bound
	To   time.Time // exclusive upper bound
}

// Contains reports whether the t instant falls in the w window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// Day returns a Window covering the whole calendar day of the t
// instant, in the location of t.
func Day(t time.Time) Window {
	y, m, d := t.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return Window{From: from, To: from.AddDate(0, 0, 1)}
}
