// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collector

import (
	"context"
	"time"

	"github.com/NVIDIA/opmeter/pkg/errors"
	"github.com/NVIDIA/opmeter/pkg/measurement"
)

// Collector reads point-in-time runtime telemetry. Every read is best effort:
// when some sources fail, Collect returns the fields it could read together
// with an error describing the rest.
type Collector interface {
	Collect(ctx context.Context) (*measurement.SystemStatus, error)
}

// Func adapts a function to the Collector interface.
type Func func(ctx context.Context) (*measurement.SystemStatus, error)

// Collect calls f(ctx).
func (f Func) Collect(ctx context.Context) (*measurement.SystemStatus, error) {
	return f(ctx)
}

// Noop returns an empty status.
var Noop Collector = Func(func(context.Context) (*measurement.SystemStatus, error) {
	return &measurement.SystemStatus{}, nil
})

// CollectWithTimeout runs c bounded by timeout. When c returns in time its
// status is kept even if it also returns an error, with unread fields zero.
// When the timeout expires first, whatever c produces later is dropped and a
// zero status is returned with an ErrCodeTimeout error.
func CollectWithTimeout(ctx context.Context, c Collector, timeout time.Duration) (measurement.SystemStatus, error) {
	if c == nil {
		return measurement.SystemStatus{}, nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		s   *measurement.SystemStatus
		err error
	}
	done := make(chan result, 1)
	go func() {
		s, err := c.Collect(ctx)
		done <- result{s, err}
	}()

	select {
	case r := <-done:
		var s measurement.SystemStatus
		if r.s != nil {
			s = *r.s
		}
		return s, r.err
	case <-ctx.Done():
		return measurement.SystemStatus{}, errors.Wrap(errors.ErrCodeTimeout, "telemetry collection timed out", ctx.Err())
	}
}
