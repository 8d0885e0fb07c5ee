// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/leseb/solrcell/pkg/mediatype"
	"github.com/leseb/solrcell/pkg/record"
)

// AttachmentParser holds what commands that consume a record's attachment
// have in common: the set of MIME types they accept and access to the
// attachment body.
type AttachmentParser struct {
	logger    *slog.Logger
	supported []mediatype.MediaType
	keys      map[string]bool
}

// NewAttachmentParser returns a parser that accepts any MIME type until
// AddSupportedMimeType is called.
func NewAttachmentParser(logger *slog.Logger) *AttachmentParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttachmentParser{logger: logger}
}

// AddSupportedMimeType adds a type or range ("text/*", "*/*") to the
// accepted set. Parameters are ignored.
func (a *AttachmentParser) AddSupportedMimeType(s string) error {
	mt, err := mediatype.ParseBase(s)
	if err != nil {
		return err
	}
	if a.keys == nil {
		a.keys = make(map[string]bool)
	}
	if !a.keys[mt.Key()] {
		a.keys[mt.Key()] = true
		a.supported = append(a.supported, mt)
	}
	return nil
}

// SupportedMimeTypes returns the accepted types, nil meaning any.
func (a *AttachmentParser) SupportedMimeTypes() []mediatype.MediaType {
	return a.supported
}

// IsMimeTypeSupported reports whether rec declares an accepted MIME type.
func (a *AttachmentParser) IsMimeTypeSupported(rec *record.Record) bool {
	if a.supported == nil {
		return true
	}
	declared, ok := MimeType(rec)
	if !ok {
		a.logger.Debug("record has no MIME type", "field", record.FieldAttachmentMimeType)
		return false
	}
	mt, err := mediatype.ParseBase(declared)
	if err != nil {
		a.logger.Debug("record has an invalid MIME type", "mime_type", declared, "error", err)
		return false
	}
	if a.keys[mt.Key()] {
		return true
	}
	for _, pattern := range a.supported {
		if mediatype.Matches(mt, pattern) {
			return true
		}
	}
	a.logger.Debug("no supported MIME type found", "mime_type", declared)
	return false
}

// Open checks that rec carries an attachment of an accepted type and
// returns a reader over the body. Records that do not qualify yield
// ErrRejected. The caller closes the reader.
func (a *AttachmentParser) Open(rec *record.Record) (io.ReadCloser, error) {
	if !rec.Has(record.FieldAttachmentBody) {
		a.logger.Debug("record has no attachment", "field", record.FieldAttachmentBody)
		return nil, Rejectf("missing %s", record.FieldAttachmentBody)
	}
	if !a.IsMimeTypeSupported(rec) {
		declared, _ := MimeType(rec)
		return nil, Rejectf("unsupported MIME type %q", declared)
	}
	return AttachmentReader(rec)
}

// AttachmentReader returns a reader over the first attachment body value,
// which may be a []byte, a string or an io.Reader.
func AttachmentReader(rec *record.Record) (io.ReadCloser, error) {
	switch body := rec.FirstValue(record.FieldAttachmentBody).(type) {
	case []byte:
		return io.NopCloser(bytes.NewReader(body)), nil
	case string:
		return io.NopCloser(strings.NewReader(body)), nil
	case io.ReadCloser:
		return body, nil
	case io.Reader:
		return io.NopCloser(body), nil
	default:
		return nil, fmt.Errorf("unsupported %s value of type %T", record.FieldAttachmentBody, body)
	}
}

// MimeType returns the record's declared attachment MIME type.
func MimeType(rec *record.Record) (string, bool) {
	s, ok := rec.FirstValue(record.FieldAttachmentMimeType).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
