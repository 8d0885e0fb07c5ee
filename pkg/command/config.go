// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeConfig decodes a command configuration into out, a pointer to a
// struct with mapstructure tags. Scalars are converted where it is lossless
// ("true" to bool, 1 to "1"); keys out does not declare are an error.
func DecodeConfig(cfg map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create config decoder: %w", err)
	}
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
