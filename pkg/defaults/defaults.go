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

package defaults

import "time"

// Meter line rendering.
const (
	// PrintCategory controls whether readable lines include the category.
	PrintCategory = true

	// PrintOperation controls whether readable lines include the operation name.
	PrintOperation = true

	// PrintPosition controls whether readable lines include the position.
	PrintPosition = true

	// PrintSession controls whether readable lines end with the session id.
	PrintSession = true
)

// Meter logging.
const (
	// LogCreate emits a DEBUG SCHEDULED line when a meter is constructed.
	LogCreate = true

	// LogData emits the encoded counterpart of every readable line.
	LogData = true

	// Telemetry captures runtime telemetry when a meter stops. While it is off
	// meters leave SystemStatus zero.
	Telemetry = false
)

// Meter timing.
const (
	// ProgressPeriod is the minimum interval between PROGRESS lines.
	// Zero disables progress logging.
	ProgressPeriod = 2 * time.Second

	// TimeLimit is the default slow-operation threshold applied to new meters.
	// Zero means no limit.
	TimeLimit time.Duration = 0
)

// Meter misuse reporting.
const (
	// UsageWarningBurst is the number of illegal-call warnings a single meter
	// always logs before throttling applies.
	UsageWarningBurst = 5

	// UsageWarningInterval is the minimum interval between throttled warnings.
	UsageWarningInterval = time.Minute
)

// Telemetry and CLI timeouts.
const (
	// CollectorTimeout bounds a single telemetry collection.
	CollectorTimeout = 500 * time.Millisecond

	// DecodeConcurrency is the number of files decoded in parallel by the CLI.
	DecodeConcurrency = 4

	// MaxLineSize is the largest log line the CLI decoder accepts.
	MaxLineSize = 1024 * 1024
)

// EnvPrefix is the prefix of environment variables overriding settings.
const EnvPrefix = "OPMETER_"
