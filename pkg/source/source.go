// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/provider"
)

// ErrDocumentNotFound is returned when a document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// Providers is the registry of document source implementations.
// Import implementation packages with blank imports to register them:
//
//	import _ "github.com/leseb/solrcell/pkg/source/memory"
//	import _ "github.com/leseb/solrcell/pkg/source/filesystem"
//	import _ "github.com/leseb/solrcell/pkg/source/s3"
var Providers = provider.NewRegistry[Source]("source")

// Document describes a document available for ingestion.
type Document struct {
	ID       string // unique within the source, slash separated
	Name     string // base file name
	MimeType string // base media type, never empty
	Charset  string // declared character set, if any
	Size     int64
	ModTime  time.Time
}

// Source lists documents and opens their content.
type Source interface {
	// List returns every document, sorted by ID.
	List(ctx context.Context) ([]*Document, error)
	// Open returns a reader over the content of the document with the given ID.
	Open(ctx context.Context, id string) (io.ReadCloser, error)
	Close(ctx context.Context) error
}

// DetectMimeType settles a document's media type and charset. A declared
// type wins unless it is empty or the generic octet-stream type, then the
// file name extension, then the leading bytes of the content.
func DetectMimeType(declared, name string, head []byte) (mimeType, charset string) {
	if mt, ok := Declared(declared); ok {
		return mt.Base().String(), mt.Params["charset"]
	}
	return mediatype.Detect(head, name).String(), ""
}

// Declared parses a declared content type. ok is false for empty, invalid
// and generic binary types, which carry no information.
func Declared(s string) (mediatype.MediaType, bool) {
	mt, err := mediatype.Parse(s)
	if err != nil {
		return mediatype.MediaType{}, false
	}
	switch mt.Key() {
	case mediatype.OctetStream.Key(), "binary/octet-stream":
		return mediatype.MediaType{}, false
	}
	return mt, true
}

// Sniff reads the leading bytes of r used for content detection.
func Sniff(r io.Reader) ([]byte, error) {
	head := make([]byte, mediatype.SniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}
