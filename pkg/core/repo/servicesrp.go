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

// ServicesConnQueryer is a ServicesQueryer which is guided by a Conn.
type ServicesConnQueryer interface {
	ServicesQueryer
}

// ServicesTxQueryer is a ServicesQueryer which is guided by a Tx.
type ServicesTxQueryer interface {
	ServicesQueryer
}

// ServicesQueryer specifies the washing services repository queries.
// Save must be an upsert keyed by the service id because each status
// transition overwrites the stored job with its advanced state.
type ServicesQueryer interface {
	// Save inserts or updates the given washing service.
	Save(ctx context.Context, s model.WashingService) error

	// LoadSince returns all services which are not yet Completed plus
	// the services (of any status) whose creation time is not before
	// the `from` instant, so the board may rehydrate both its open
	// jobs and the recent reporting history.
	LoadSince(ctx context.Context, from time.Time) ([]model.WashingService, error)
}

// Services represents the washing services repository which can be
// guided by a Conn or Tx in order to find out how its queries should
// be executed.
type Services interface {
	Conn(Conn) ServicesConnQueryer
	Tx(Tx) ServicesTxQueryer
}
