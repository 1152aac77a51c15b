// Package header defines the common header stamped on every serialized
// tunedb result: kind, API version and metadata such as the generator
// version and timestamp.
package header

import (
	"time"
)

// APIDomain is the API group of every tunedb resource.
const APIDomain = "tunedb.io"

// Kind is the type of a serialized resource.
type Kind string

const (
	// KindTuningParameters is a resolved parameter set for one kernel.
	KindTuningParameters Kind = "TuningParameters"

	// KindRoutineParameters is the set of resolved parameters for a routine.
	KindRoutineParameters Kind = "RoutineParameters"

	// KindLintReport is the result of validating a knowledge base.
	KindLintReport Kind = "LintReport"
)

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
// If the Metadata map is nil, it will be initialized.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind field of the Header.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion returns an Option that sets the APIVersion field of the Header.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// New creates a new Header instance with the provided functional options.
// The Metadata map is initialized automatically.
func New(opts ...Option) *Header {
	h := &Header{
		Metadata: make(map[string]string),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Header contains metadata and versioning information for tunedb resources.
// It follows Kubernetes-style resource conventions with Kind, APIVersion, and Metadata fields.
type Header struct {
	// Kind is the type of the resource.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the API version of the resource.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs with metadata about the resource.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets Kind and APIVersion ("tunedb.io/v1alpha1") and records the
// generator version and a UTC timestamp in Metadata.
func (h *Header) Init(kind Kind, version string) {
	h.Kind = kind
	h.APIVersion = APIDomain + "/v1alpha1"
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if version != "" {
		h.Metadata["version"] = version
	}
}
