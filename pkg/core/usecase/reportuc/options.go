// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reportuc

import "fmt"

// Option is a functional option for the reporting use case.
type Option func(uc *UseCase) error

// WithOperatingWindow option configures the hourly bucketing scheme
// to cover the [openHour, closeHour) operating hours instead of the
// default 06:00 to 24:00 business day. This option may be passed to
// the New() function.
func WithOperatingWindow(openHour, closeHour int) Option {
	return func(uc *UseCase) error {
		if openHour < 0 || closeHour > 24 || openHour >= closeHour {
			return fmt.Errorf(
				"operating window [%d, %d) is not valid",
				openHour, closeHour,
			)
		}
		if uc.closeHour != 0 {
			return fmt.Errorf("operating window is already configured")
		}
		uc.openHour = openHour
		uc.closeHour = closeHour
		return nil
	}
}
