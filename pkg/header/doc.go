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

// Package header provides the common header of opmeter documents.
//
// Measurements exported by the CLI as JSON or YAML are wrapped in a document
// carrying a Kubernetes-style header, so that later reads can tell what they
// are looking at:
//
//	kind: MeasurementList
//	apiVersion: opmeter.nvidia.com/v1alpha1
//	metadata:
//	  timestamp: "2025-01-15T10:30:00Z"
//	  version: v1.0.0
//	items:
//	  - ...
//
// Documents embed the Header inline:
//
//	type List struct {
//	    header.Header `json:",inline" yaml:",inline"`
//	    Items []*Measurement `json:"items" yaml:"items"`
//	}
//
// and validate it with Check when read back.
package header
