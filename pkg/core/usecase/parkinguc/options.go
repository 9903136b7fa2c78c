// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package parkinguc

import (
	"errors"

	"github.com/momeni/park-bill/pkg/core/repo"
)

// Option is a functional option for the parking ledger use case.
type Option func(uc *UseCase) error

// WithPersistence option configures a parking ledger instance to
// write every committed session state through the given repository
// and to support rehydration with the Reload method. Without this
// option, the ledger is memory-only, which suits tests and
// ephemeral deployments. This option may be passed to the New()
// function.
func WithPersistence(p repo.Pool, rp repo.Sessions) Option {
	return func(uc *UseCase) error {
		if p == nil || rp == nil {
			return errors.New("nil pool or sessions repository")
		}
		if uc.pool != nil {
			return errors.New("persistence is already configured")
		}
		uc.pool = p
		uc.sessionsrp = rp
		return nil
	}
}
