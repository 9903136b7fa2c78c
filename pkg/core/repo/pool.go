// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the persistence and directory ports which
// the use cases layer consumes. The core contract is defined purely
// in terms of each operation's pre/postconditions; the adapters layer
// provides the storage technology behind these interfaces and is
// responsible to translate infrastructure failures into wrapped
// errors before they reach this layer.
package repo

import "context"

// ConnHandler is a function which uses an acquired connection.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool. Connections may be
// acquired on demand and must be released when their handler function
// returns.
type Pool interface {
	// Conn acquires a connection and passes it to the f handler.
	// The connection is released when f returns and its error (after
	// possible wrapping) is returned.
	Conn(ctx context.Context, f ConnHandler) error
}
