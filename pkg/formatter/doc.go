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

// Package formatter renders measurements as log lines and parses them back.
//
// Two renderings exist for every snapshot:
//
//   - Readable: a single human line such as
//     "OK: invoice/render#12 3/3; 5.1ms; 588.2/s 1.7ms; customer=42; 5ab6..."
//   - Encoded: a strictly delimited record such as
//     {sid="5ab6...";pos=12;cat="billing.invoice";op="render";t0=...;out=OK}
//
// Encoded records are stable in key order and naming, and Parse(Encode(m))
// reproduces m field for field, context order included. Parse never returns a
// partially filled measurement.
//
// Durations use one decimal and an adaptive unit (ns, us, ms, s, min, h). A
// unit is only promoted once the value reaches 1.1 times the next unit, so one
// second renders as "1000.0ms" and two seconds as "2.0s".
package formatter
