// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/leseb/solrcell/pkg/sax"
)

// ParseEmbedded writes a nested document (an archive entry, a mail
// attachment) into the enclosing document as
//
//	<div class="package-entry"><h1>name</h1> ...body of the entry... </div>
//
// The entry is parsed with pc.Embedded; when that is nil only the heading is
// written. Failures of the nested parse are recorded in parent metadata under
// EmbeddedException and do not fail the enclosing document, except for
// cancellation and ErrMaxDepth.
func ParseEmbedded(ctx context.Context, r io.Reader, name, contentType string, xhtml *sax.XHTML, parent *Metadata, pc *ParseContext) error {
	if err := xhtml.Start("div", sax.Attr("class", "package-entry")); err != nil {
		return err
	}
	if name != "" {
		if err := xhtml.Element("h1", name); err != nil {
			return err
		}
	}

	if pc != nil && pc.Embedded != nil {
		child, err := pc.nested()
		if err != nil {
			return fmt.Errorf("parse embedded %q: %w", name, err)
		}

		md := NewMetadata()
		if name != "" {
			md.Set(ResourceName, name)
		}
		if contentType != "" {
			md.Set(ContentType, contentType)
		}

		err = pc.Embedded.Parse(ctx, r, sax.NewBody(xhtml), md, child)
		switch {
		case err == nil:
		case errors.Is(err, ErrMaxDepth), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			if parent != nil {
				parent.Add(EmbeddedException, fmt.Sprintf("%s: %v", name, err))
			}
		}
	}

	return xhtml.End("div")
}
