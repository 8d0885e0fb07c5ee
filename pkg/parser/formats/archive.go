// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package formats

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/sax"
)

// Package parses zip and tar archives and gzip streams. Every archive entry,
// or the decompressed stream, is written as an embedded document.
type Package struct{}

func (Package) SupportedTypes() []mediatype.MediaType {
	return types("application/zip", "application/x-tar", "application/gzip", "application/x-gzip")
}

func (Package) Parse(ctx context.Context, r io.Reader, h sax.ContentHandler, md *parser.Metadata, pc *parser.ParseContext) error {
	br := bufio.NewReaderSize(r, mediatype.SniffLen)
	head, _ := br.Peek(mediatype.SniffLen)
	kind := mediatype.ByContent(head)
	md.Set(parser.ContentType, kind.String())

	x := sax.NewXHTML(h, md)
	if err := x.StartDocument(); err != nil {
		return err
	}

	var err error
	switch kind.Key() {
	case "application/zip":
		err = parseZip(ctx, br, x, md, pc)
	case "application/x-tar":
		err = parseTar(ctx, br, x, md, pc)
	case "application/gzip":
		err = parseGzip(ctx, br, x, md, pc)
	default:
		err = fmt.Errorf("unrecognized archive format %s", kind)
	}
	if err != nil {
		return err
	}
	return x.EndDocument()
}

func parseZip(ctx context.Context, r io.Reader, x *sax.XHTML, md *parser.Metadata, pc *parser.ParseContext) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read zip: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			md.Add(parser.EmbeddedException, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}
		err = parser.ParseEmbedded(ctx, rc, f.Name, "", x, md, pc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func parseTar(ctx context.Context, r io.Reader, x *sax.XHTML, md *parser.Metadata, pc *parser.ParseContext) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if err := parser.ParseEmbedded(ctx, tr, hdr.Name, "", x, md, pc); err != nil {
			return err
		}
	}
}

func parseGzip(ctx context.Context, r io.Reader, x *sax.XHTML, md *parser.Metadata, pc *parser.ParseContext) error {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("open gzip: %w", err)
	}
	defer zr.Close()

	name := zr.Name
	if name == "" {
		name = decompressedName(md.Get(parser.ResourceName))
	}
	return parser.ParseEmbedded(ctx, zr, name, "", x, md, pc)
}

// decompressedName derives the inner file name from a compressed one:
// "a.txt.gz" becomes "a.txt" and "a.tgz" becomes "a.tar".
func decompressedName(name string) string {
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	switch strings.ToLower(path.Ext(base)) {
	case ".gz":
		return strings.TrimSuffix(base, path.Ext(base))
	case ".tgz":
		return strings.TrimSuffix(base, path.Ext(base)) + ".tar"
	}
	return base
}
