// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/momeni/park-bill/pkg/core/model"
)

// SessionsConnQueryer is a SessionsQueryer which is guided by a Conn.
type SessionsConnQueryer interface {
	SessionsQueryer
}

// SessionsTxQueryer is a SessionsQueryer which is guided by a Tx.
type SessionsTxQueryer interface {
	SessionsQueryer
}

// SessionsQueryer specifies the parking sessions repository queries.
// The ledger use case keeps the authoritative entity state in memory
// and writes each committed state through this port, so sessions
// survive a process restart. Save must be an upsert keyed by the
// session id because the open operation inserts a session and the
// close operation overwrites it with its completed state.
type SessionsQueryer interface {
	// Save inserts or updates the given parking session.
	Save(ctx context.Context, s model.ParkingSession) error

	// LoadSince returns all sessions which are still Active plus the
	// sessions (of any status) whose entry time is not before the
	// `from` instant, so the ledger may rehydrate both its occupancy
	// state and the recent reporting history.
	LoadSince(ctx context.Context, from time.Time) ([]model.ParkingSession, error)
}

// Sessions represents the parking sessions repository which can be
// guided by a Conn or Tx in order to find out how its queries should
// be executed.
type Sessions interface {
	Conn(Conn) SessionsConnQueryer
	Tx(Tx) SessionsTxQueryer
}
