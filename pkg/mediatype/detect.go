// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package mediatype

import (
	"bytes"
	"mime"
	"net/http"
	"path"
	"strings"
)

// SniffLen is the number of leading bytes Detect looks at.
const SniffLen = 512

// extensions covers document formats missing from the mime package's
// built-in table. Consulted before the system table.
var extensions = map[string]string{
	".txt":    "text/plain",
	".text":   "text/plain",
	".log":    "text/plain",
	".md":     "text/plain",
	".csv":    "text/csv",
	".tsv":    "text/tab-separated-values",
	".htm":    "text/html",
	".html":   "text/html",
	".xhtml":  "application/xhtml+xml",
	".json":   "application/json",
	".jsonl":  "application/x-ndjson",
	".ndjson": "application/x-ndjson",
	".pdf":    "application/pdf",
	".docx":   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx":   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".eml":    "message/rfc822",
	".zip":    "application/zip",
	".tar":    "application/x-tar",
	".gz":     "application/gzip",
	".tgz":    "application/gzip",
}

// ByName guesses a media type from a file name's extension. ok is false when
// the extension is unknown.
func ByName(name string) (MediaType, bool) {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return MediaType{}, false
	}
	if s, found := extensions[ext]; found {
		return MustParse(s), true
	}
	if s := mime.TypeByExtension(ext); s != "" {
		if mt, err := ParseBase(s); err == nil {
			return mt, true
		}
	}
	return MediaType{}, false
}

// ByContent sniffs a media type from the leading bytes of a document.
// Container formats are recognized by their magic numbers; everything else
// falls back to the WHATWG sniffing algorithm.
func ByContent(head []byte) MediaType {
	switch {
	case bytes.HasPrefix(head, []byte("%PDF-")):
		return MustParse("application/pdf")
	case bytes.HasPrefix(head, []byte("PK\x03\x04")):
		return MustParse("application/zip")
	case bytes.HasPrefix(head, []byte{0x1f, 0x8b}):
		return MustParse("application/gzip")
	case len(head) >= 262 && string(head[257:262]) == "ustar":
		return MustParse("application/x-tar")
	}
	mt, err := ParseBase(http.DetectContentType(head))
	if err != nil {
		return OctetStream
	}
	return mt
}

// Detect combines ByName and ByContent. A known extension wins.
func Detect(head []byte, name string) MediaType {
	if mt, ok := ByName(name); ok {
		return mt
	}
	return ByContent(head)
}
