// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceFormat declares the payload format an external source serves.
type SourceFormat string

const (
	FormatJSON SourceFormat = "json"
	FormatXML  SourceFormat = "xml"
	FormatRSS  SourceFormat = "rss"
)

// Bias is a source's declared editorial lean.
type Bias string

const (
	BiasLeft   Bias = "left"
	BiasCenter Bias = "center"
	BiasRight  Bias = "right"
)

// Score maps the declared lean onto a 0-100 axis (left 0, center 50,
// right 100). Unknown leans read as center.
func (b Bias) Score() int {
	switch b {
	case BiasLeft:
		return 0
	case BiasRight:
		return 100
	default:
		return 50
	}
}

// Source is the static configuration for one external data source. Sources
// are loaded at startup and never mutated at runtime.
type Source struct {
	// ID is the unique source identifier used as the result-map key
	// (e.g. "parliament-roster", "news-wire").
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// Name is the human-readable source name.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Kind is the canonical record kind this source produces.
	Kind RecordKind `json:"kind" yaml:"kind" mapstructure:"kind"`

	// Endpoint is the fetch URL.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// Format declares the payload format: json, xml, or rss.
	Format SourceFormat `json:"format" yaml:"format" mapstructure:"format"`

	// Credibility is the declared credibility rating, 0-100.
	Credibility int `json:"credibility" yaml:"credibility" mapstructure:"credibility"`

	// Bias is the declared editorial lean: left, center, or right.
	Bias Bias `json:"bias,omitempty" yaml:"bias,omitempty" mapstructure:"bias"`

	// RequestsPerMinute caps the request rate against the source
	// (default 30).
	RequestsPerMinute int `json:"requests_per_minute,omitempty" yaml:"requests_per_minute,omitempty" mapstructure:"requests_per_minute"`

	// Timeout overrides the shared HTTP timeout for this source.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`
}
