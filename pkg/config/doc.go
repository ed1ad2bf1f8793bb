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

// Package config holds the meter settings and their loading rules.
//
// Settings are never cached by meters: every creation and transition asks its
// Source for the current value, so a Set takes effect on the next call.
//
// Settings can come from YAML:
//
//	printCategory: true
//	printPosition: true
//	progressPeriod: 5s
//	timeLimit: 250ms
//	redactKeys: ["*password*", "token"]
//
// and be overridden from the environment:
//
//	OPMETER_PROGRESS_PERIOD=1s OPMETER_TELEMETRY=true ./app
//
// Typical wiring in main:
//
//	s, err := config.Load("opmeter.yaml")
//	if err != nil { ... }
//	if s, err = config.FromEnv(s); err != nil { ... }
//	config.Set(s)
package config
