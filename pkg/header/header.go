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

package header

import (
	"fmt"
	"time"
)

// APIVersion is the schema version written into every opmeter document.
const APIVersion = "opmeter.nvidia.com/v1alpha1"

// Kind represents the type of an opmeter document.
type Kind string

// Valid Kind constants for all opmeter document types.
const (
	KindMeasurementList Kind = "MeasurementList"
	KindBuildInfo       Kind = "BuildInfo"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k *Kind) IsValid() bool {
	switch *k {
	case KindMeasurementList, KindBuildInfo:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
// Empty values are skipped.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if value == "" {
			return
		}
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// New creates a Header of kind with the current APIVersion and a timestamp,
// then applies opts.
func New(kind Kind, opts ...Option) Header {
	h := Header{
		Kind:       kind,
		APIVersion: APIVersion,
		Metadata: map[string]string{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

// Header contains metadata and versioning information for opmeter documents.
// It follows Kubernetes-style resource conventions with Kind, APIVersion, and Metadata fields.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the API version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs describing how the document was produced.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Check verifies that h describes a document of kind written with a
// supported APIVersion.
func (h *Header) Check(kind Kind) error {
	if !h.Kind.IsValid() {
		return fmt.Errorf("unknown document kind: %q", h.Kind)
	}
	if h.Kind != kind {
		return fmt.Errorf("expected %s document, got %s", kind, h.Kind)
	}
	if h.APIVersion != APIVersion {
		return fmt.Errorf("unsupported apiVersion: %q", h.APIVersion)
	}
	return nil
}
