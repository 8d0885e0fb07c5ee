// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package solrcell

import (
	"github.com/leseb/solrcell/pkg/schema/locator"
)

// config is the solrCell command configuration.
type config struct {
	SolrLocator locator.Config `mapstructure:"solrLocator"`

	UnknownFieldPrefix string              `mapstructure:"uprefix"`
	Capture            []string            `mapstructure:"capture"`
	FieldMap           map[string]string   `mapstructure:"fmap"`
	CaptureAttributes  bool                `mapstructure:"captureAttr"`
	LowerNames         bool                `mapstructure:"lowernames"`
	DefaultField       string              `mapstructure:"defaultField"`
	XPath              string              `mapstructure:"xpath"`
	Literals           map[string][]string `mapstructure:"literal"`
	LiteralsOverride   *bool               `mapstructure:"literalsOverride"`

	DateFormats    []string `mapstructure:"dateFormats"`
	HandlerFactory string   `mapstructure:"solrContentHandlerFactory"`

	SupportedMimeTypes []string       `mapstructure:"supportedMimeTypes"`
	Parsers            []parserConfig `mapstructure:"parsers"`
	MaxEmbeddedDepth   int            `mapstructure:"maxEmbeddedDepth"` // <= 0 means parser.DefaultMaxDepth
}

// parserConfig binds one parser to MIME types. SupportedMimeTypes, when
// present (even empty), replaces the parser's own types and disables
// AdditionalSupportedMimeTypes.
type parserConfig struct {
	Parser                       string            `mapstructure:"parser"`
	SupportedMimeTypes           *[]string         `mapstructure:"supportedMimeTypes"`
	AdditionalSupportedMimeTypes []string          `mapstructure:"additionalSupportedMimeTypes"`
	Params                       map[string]string `mapstructure:"params"`
}
