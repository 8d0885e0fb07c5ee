// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package formats

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/leseb/solrcell/pkg/parser"
)

const (
	docxType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// NewOOXML returns a parser for Office Open XML documents (Word and Excel).
func NewOOXML() *parser.Composite {
	return parser.NewComposite(DOCX{}, XLSX{})
}

// coreProperties is docProps/core.xml of an OOXML package.
type coreProperties struct {
	Title          string `xml:"title"`
	Subject        string `xml:"subject"`
	Creator        string `xml:"creator"`
	Keywords       string `xml:"keywords"`
	Description    string `xml:"description"`
	LastModifiedBy string `xml:"lastModifiedBy"`
	Created        string `xml:"created"`
	Modified       string `xml:"modified"`
}

// readCoreProperties loads docProps/core.xml from an OOXML package. Missing
// or unreadable properties yield a zero value.
func readCoreProperties(content []byte) coreProperties {
	var props coreProperties
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return props
	}
	f, err := zr.Open("docProps/core.xml")
	if err != nil {
		return props
	}
	defer f.Close()
	_ = xml.NewDecoder(f).Decode(&props)
	return props
}

// apply copies non-empty properties into metadata.
func (p coreProperties) apply(md *parser.Metadata) {
	set := func(v string, names ...string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		for _, n := range names {
			md.Set(n, v)
		}
	}
	set(p.Title, parser.DCTitle, parser.Title)
	set(p.Creator, parser.Creator, parser.Author)
	set(p.Subject, parser.Subject)
	set(p.Keywords, parser.Keywords)
	set(p.Description, parser.Description)
	set(p.LastModifiedBy, parser.LastModifiedBy)
	set(p.Created, parser.Created)
	set(p.Modified, parser.Modified)
}
