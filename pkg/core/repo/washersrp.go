// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/park-bill/pkg/core/model"
)

// Washers represents the external worker directory. The board use
// case resolves assignment targets through this port and the job
// board view resolves worker display names with it. Unlike the
// entity repositories, it is a read-only collaborator and is not
// guided by a Conn or Tx; each implementation owns its querying
// strategy (and possible caching) internally.
type Washers interface {
	// Resolve returns the directory record of the given washer id.
	// A missing id is reported by an error wrapping the
	// model.ErrUnknownWasher sentinel.
	Resolve(ctx context.Context, washerID int64) (*model.Washer, error)

	// List returns all directory records, ordered by id, for the
	// job board view.
	List(ctx context.Context) ([]model.Washer, error)
}
