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

package meter

import (
	"log/slog"

	"github.com/NVIDIA/opmeter/pkg/config"
	"github.com/NVIDIA/opmeter/pkg/formatter"
	"github.com/NVIDIA/opmeter/pkg/measurement"
)

// emit writes the readable line of snap and, when Settings.LogData is on, its
// encoded counterpart. Formatting is skipped for disabled levels.
func (m *Meter) emit(level slog.Level, snap *measurement.Measurement, s config.Settings) {
	if m.logger.Enabled(m.ctx, level) {
		m.logger.Log(m.ctx, level, formatter.Readable(snap, formatter.OptionsFrom(s)),
			slog.String("category", snap.Category))
	}
	if s.LogData && m.dataLogger.Enabled(m.ctx, level) {
		m.dataLogger.Log(m.ctx, level, formatter.Encode(measurement.Redact(snap, s.RedactKeys)))
	}
}
