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

package measurement

import (
	"github.com/NVIDIA/opmeter/pkg/header"
)

// List is an exported document of measurements.
type List struct {
	header.Header `json:",inline" yaml:",inline"`

	Items []*Measurement `json:"items" yaml:"items"`
}

// NewList wraps items in a MeasurementList document. Metadata options are
// applied to the header.
func NewList(items []*Measurement, opts ...header.Option) *List {
	if items == nil {
		items = []*Measurement{}
	}
	return &List{
		Header: header.New(header.KindMeasurementList, opts...),
		Items:  items,
	}
}

// Validate checks the header and every item.
func (l *List) Validate() error {
	if err := l.Check(header.KindMeasurementList); err != nil {
		return err
	}
	for _, m := range l.Items {
		if m == nil {
			continue
		}
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}
