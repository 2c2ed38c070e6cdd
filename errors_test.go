// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgbmatrix

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsAreDistinguishableViaIs(t *testing.T) {
	sentinels := []error{
		ErrMemoryAccess,
		ErrChipDetermination,
		ErrInvalidConfiguration,
		ErrGpioInit,
		ErrThreadStartup,
	}
	for i, want := range sentinels {
		wrapped := fmt.Errorf("context: %w: detail", want)
		if !errors.Is(wrapped, want) {
			t.Errorf("errors.Is(wrapped, sentinels[%d]) = false, want true", i)
		}
		for j, other := range sentinels {
			if i == j {
				continue
			}
			if errors.Is(wrapped, other) {
				t.Errorf("errors.Is unexpectedly matched sentinels[%d] against sentinels[%d]", i, j)
			}
		}
	}
}
