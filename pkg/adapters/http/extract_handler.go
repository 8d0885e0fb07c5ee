// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/leseb/solrcell/pkg/command"
	"github.com/leseb/solrcell/pkg/record"
	"github.com/leseb/solrcell/pkg/source"
)

const (
	maxFileSize = 512 * 1024 * 1024 // 512 MB
)

// extractResponse is the body returned by POST /v1/extract.
type extractResponse struct {
	Object    string           `json:"object"`
	Data      []*record.Record `json:"data"`
	Committed bool             `json:"committed"`
}

// handleExtract handles POST /v1/extract. The document is either the
// "file" part of a multipart form or the raw request body. Query
// parameters:
//
//	id         record ID (default: the file name)
//	name       file name for a raw body
//	mime_type  declared MIME type, overriding the part or body Content-Type
//	literal.X  extra value for field X, repeatable
//	commit     write the extracted records to the sink
func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	content, name, declared, err := readDocument(r)
	if err != nil {
		h.logger.Error("Failed to read document", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	q := r.URL.Query()
	if v := q.Get("name"); v != "" {
		name = v
	}
	if v := q.Get("mime_type"); v != "" {
		declared = v
	}
	mimeType, charset := source.DetectMimeType(declared, name, content)

	rec := record.New()
	id := q.Get("id")
	if id == "" {
		id = name
	}
	if id != "" {
		rec.Put(record.FieldID, id)
	}
	rec.Put(record.FieldAttachmentBody, content)
	rec.Put(record.FieldAttachmentMimeType, mimeType)
	if charset != "" {
		rec.Put(record.FieldAttachmentCharset, charset)
	}
	if name != "" {
		rec.Put(record.FieldAttachmentName, name)
	}
	for key, values := range q {
		if field, ok := strings.CutPrefix(key, "literal."); ok && field != "" {
			for _, v := range values {
				rec.Put(field, v)
			}
		}
	}

	out := &command.Collector{}
	ctx := context.WithValue(r.Context(), collectorKey{}, out)
	if err := h.chain.Process(ctx, rec); err != nil {
		if errors.Is(err, command.ErrRejected) {
			h.logger.Debug("Document rejected", "name", name, "mime_type", mimeType, "reason", err)
			h.writeError(w, http.StatusUnsupportedMediaType, "unsupported_document", err.Error())
			return
		}
		h.logger.Error("Failed to extract document", "name", name, "error", err)
		h.writeError(w, http.StatusUnprocessableEntity, "extraction_error", err.Error())
		return
	}

	commit, _ := strconv.ParseBool(q.Get("commit"))
	records := out.Records()
	if commit {
		if h.writer == nil {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "No sink configured")
			return
		}
		for _, rec := range records {
			if err := h.writer.Write(r.Context(), rec); err != nil {
				h.logger.Error("Failed to write record", "error", err)
				h.writeError(w, http.StatusInternalServerError, "write_error", "Failed to write record")
				return
			}
		}
	}

	h.writeJSON(w, http.StatusOK, extractResponse{
		Object:    "list",
		Data:      records,
		Committed: commit,
	})
}

// readDocument returns the uploaded bytes with their file name and
// declared content type.
func readDocument(r *http.Request) ([]byte, string, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFileSize); err != nil {
			return nil, "", "", errors.New("failed to parse multipart form")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", "", errors.New("file is required")
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return nil, "", "", errors.New("failed to read file content")
		}
		return content, header.Filename, header.Header.Get("Content-Type"), nil
	}

	content, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxFileSize))
	if err != nil {
		return nil, "", "", errors.New("failed to read request body")
	}
	if len(content) == 0 {
		return nil, "", "", errors.New("request body is empty")
	}
	return content, "", r.Header.Get("Content-Type"), nil
}
