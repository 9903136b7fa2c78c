// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is a function which uses an opened transaction.
type TxHandler func(context.Context, Tx) error

// Conn represents a single database connection, obtained from a Pool.
// It is unsafe to be used concurrently.
type Conn interface {
	Queryer

	// Tx begins a transaction, passes it to the f handler, and
	// commits it if f returns nil or rolls it back otherwise.
	Tx(ctx context.Context, f TxHandler) error

	// IsConn method prevents a non-Conn object to mistakenly
	// implement the Conn interface.
	IsConn()
}
