// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Queryer specifies the common statement execution methods which are
// provided by both of the Conn and Tx interfaces.
type Queryer interface {
	// Exec runs the sql statement with the given args and returns
	// the number of affected rows.
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)

	// Query runs the sql query with the given args and returns the
	// result set as a Rows instance.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows represents a result set of a query.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
}
