// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package cell

import (
	"slices"
	"strings"
	"testing"

	"github.com/leseb/solrcell/pkg/parser"
	"github.com/leseb/solrcell/pkg/sax"
	"github.com/leseb/solrcell/pkg/schema"
)

func testSchema(t *testing.T) *schema.IndexSchema {
	t.Helper()
	multi := true
	s := schema.New("test", "id")
	s.AddFieldType(schema.FieldType{Name: "string", Class: "solr.StrField"})
	s.AddFieldType(schema.FieldType{Name: "text", Class: "solr.TextField"})
	s.AddFieldType(schema.FieldType{Name: "date", Class: "solr.DatePointField"})
	fields := []struct {
		name, typ string
		multi     *bool
	}{
		{"id", "string", nil},
		{"content", "text", &multi},
		{"title", "text", nil},
		{"author", "string", &multi},
		{"content_type", "string", nil},
		{"created", "date", nil},
		{"text", "text", &multi},
		{"a", "string", &multi},
		{"h1", "text", &multi},
	}
	for _, f := range fields {
		if err := s.AddField(f.name, f.typ, f.multi); err != nil {
			t.Fatalf("AddField(%s): %v", f.name, err)
		}
	}
	if err := s.AddDynamicField("ignored_*", "string", &multi); err != nil {
		t.Fatalf("AddDynamicField: %v", err)
	}
	return s
}

// emit writes <html><body><h1>Title</h1><p>body <a href="u">link</a></p></body></html>.
func emit(t *testing.T, h sax.ContentHandler) {
	t.Helper()
	x := sax.NewXHTML(h, nil)
	steps := []func() error{
		x.StartDocument,
		func() error { return x.Element("h1", "Title") },
		func() error { return x.Start("p") },
		func() error { return x.Characters("body ") },
		func() error { return x.Element("a", "link", sax.Attr("href", "u")) },
		func() error { return x.End("p") },
		x.EndDocument,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("emit: %v", err)
		}
	}
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func assertValues(t *testing.T, doc *Document, name string, want ...string) {
	t.Helper()
	if got := doc.Values(name); !slices.Equal(got, want) {
		t.Errorf("field %s: expected %q, got %q", name, want, got)
	}
}

func assertNames(t *testing.T, doc *Document, want ...string) {
	t.Helper()
	if got := doc.Names(); !slices.Equal(got, want) {
		t.Errorf("expected fields %q, got %q", want, got)
	}
}

func TestHandler_Content(t *testing.T) {
	h := NewHandler(nil, DefaultParams(), testSchema(t), DefaultDateLayouts)
	emit(t, h)
	doc := h.NewDocument()

	assertNames(t, doc, "content")
	if got := squash(doc.Get("content")); got != "Title body u link" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestHandler_Capture(t *testing.T) {
	p := DefaultParams()
	p.Capture = []string{"h1"}
	h := NewHandler(nil, p, testSchema(t), nil)
	emit(t, h)
	doc := h.NewDocument()

	assertNames(t, doc, "content", "h1")
	if got := squash(doc.Get("h1")); got != "Title" {
		t.Errorf("expected captured h1 %q, got %q", "Title", got)
	}
	if strings.Contains(doc.Get("content"), "Title") {
		t.Error("captured text should not appear in content")
	}
}

func TestHandler_CaptureAttributes(t *testing.T) {
	p := DefaultParams()
	p.CaptureAttributes = true
	h := NewHandler(nil, p, testSchema(t), nil)
	emit(t, h)
	doc := h.NewDocument()

	// Attribute fields are added while parsing, before content.
	assertNames(t, doc, "a", "content")
	assertValues(t, doc, "a", "u")
	if got := squash(doc.Get("content")); got != "Title body link" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestHandler_Metadata(t *testing.T) {
	md := parser.NewMetadata()
	md.Add("Author", "Ann")
	md.Add("Author", "Bob")
	md.Set("title", "One")
	md.Add("title", "Two")
	md.Set("Content-Type", "text/plain")
	md.Set("X-Unknown", "kept")
	md.Add("X-Unknown", "twice")

	p := DefaultParams()
	p.LowerNames = true
	h := NewHandler(md, p, testSchema(t), nil)
	doc := h.NewDocument()

	assertValues(t, doc, "author", "Ann", "Bob")
	assertValues(t, doc, "title", "One Two")
	assertValues(t, doc, "content_type", "text/plain")
	// Unknown fields keep every value since there is no schema field to
	// say they are single valued.
	assertValues(t, doc, "x_unknown", "kept", "twice")
	assertValues(t, doc, "X-Unknown")
}

func TestHandler_FieldResolution(t *testing.T) {
	md := parser.NewMetadata()
	md.Set("meta:author", "Ann")
	md.Set("resourceName", "file.pdf")
	md.Set("stream_size", "10")

	t.Run("field map", func(t *testing.T) {
		p := DefaultParams()
		p.FieldMap = map[string]string{"meta:author": "author", "content": "text"}
		doc := NewHandler(md, p, testSchema(t), nil).NewDocument()
		assertValues(t, doc, "author", "Ann")
		assertNames(t, doc, "author", "stream_size", "text")
	})

	t.Run("unknown field prefix", func(t *testing.T) {
		p := DefaultParams()
		p.UnknownFieldPrefix = "ignored_"
		doc := NewHandler(md, p, testSchema(t), nil).NewDocument()
		assertValues(t, doc, "ignored_meta:author", "Ann")
		assertValues(t, doc, "ignored_resourceName", "file.pdf")
		assertValues(t, doc, "ignored_stream_size", "10")
	})

	t.Run("prefixed name still unknown", func(t *testing.T) {
		p := DefaultParams()
		p.UnknownFieldPrefix = "attr_"
		doc := NewHandler(md, p, testSchema(t), nil).NewDocument()
		assertNames(t, doc, "attr_meta:author", "attr_resourceName", "attr_stream_size", "content")
	})

	t.Run("default field skips resource name", func(t *testing.T) {
		p := DefaultParams()
		p.DefaultField = "text"
		doc := NewHandler(md, p, testSchema(t), nil).NewDocument()
		assertValues(t, doc, "text", "Ann", "10")
		assertNames(t, doc, "text", "content")
	})

	t.Run("unknown kept", func(t *testing.T) {
		doc := NewHandler(md, DefaultParams(), testSchema(t), nil).NewDocument()
		assertNames(t, doc, "meta:author", "stream_size", "content")
		assertValues(t, doc, "resourceName")
	})
}

func TestHandler_Literals(t *testing.T) {
	md := parser.NewMetadata()
	md.Set("id", "from-metadata")
	md.Set("title", "T")

	t.Run("override", func(t *testing.T) {
		p := DefaultParams()
		p.Literals = map[string][]string{"id": {"lit-1"}}
		doc := NewHandler(md, p, testSchema(t), nil).NewDocument()
		assertNames(t, doc, "id", "title", "content")
		assertValues(t, doc, "id", "lit-1")
	})

	t.Run("no override", func(t *testing.T) {
		p := DefaultParams()
		p.LiteralsOverride = false
		p.Literals = map[string][]string{"author": {"x"}, "id": {"lit-1"}}
		doc := NewHandler(md, p, testSchema(t), nil).NewDocument()
		assertNames(t, doc, "author", "id", "title", "content")
		assertValues(t, doc, "id", "lit-1", "from-metadata")
	})

	t.Run("unknown literal", func(t *testing.T) {
		p := DefaultParams()
		p.Literals = map[string][]string{"source": {"crawler"}}
		doc := NewHandler(nil, p, testSchema(t), nil).NewDocument()
		assertValues(t, doc, "source", "crawler")
	})
}

func TestHandler_Dates(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2013-05-01T12:00:00Z", "2013-05-01T12:00:00Z"},
		{"2013-05-01T12:00:00.250+02:00", "2013-05-01T10:00:00.25Z"},
		{"2013-05-01", "2013-05-01T00:00:00Z"},
		{"2013-05-01 08:30:00", "2013-05-01T08:30:00Z"},
		{"Wed, 01 May 2013 12:00:00 GMT", "2013-05-01T12:00:00Z"},
		{"not a date", "not a date"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			md := parser.NewMetadata()
			md.Set("created", tt.in)
			doc := NewHandler(md, DefaultParams(), testSchema(t), DefaultDateLayouts).NewDocument()
			if got := doc.Get("created"); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("unknown field is not converted", func(t *testing.T) {
		md := parser.NewMetadata()
		md.Set("modified", "2013-05-01")
		doc := NewHandler(md, DefaultParams(), testSchema(t), DefaultDateLayouts).NewDocument()
		assertValues(t, doc, "modified", "2013-05-01")
	})
}

func TestFactory(t *testing.T) {
	md := parser.NewMetadata()
	md.Set("title", "  padded  ")
	md.Set("created", " 2013-05-01 ")

	trim, err := LookupFactory("trim", nil)
	if err != nil {
		t.Fatalf("LookupFactory(trim): %v", err)
	}
	doc := trim.NewHandler(md, DefaultParams(), testSchema(t)).NewDocument()
	assertValues(t, doc, "title", "padded")
	assertValues(t, doc, "created", "2013-05-01T00:00:00Z")

	plain, err := LookupFactory("org.apache.solr.handler.extraction.SolrContentHandlerFactory", nil)
	if err != nil {
		t.Fatalf("LookupFactory(solr): %v", err)
	}
	doc = plain.NewHandler(md, DefaultParams(), testSchema(t)).NewDocument()
	assertValues(t, doc, "title", "  padded  ")
	assertValues(t, doc, "created", " 2013-05-01 ")

	custom, err := LookupFactory("default", []string{"02/01/2006"})
	if err != nil {
		t.Fatalf("LookupFactory(default): %v", err)
	}
	md = parser.NewMetadata()
	md.Set("created", "25/12/2020")
	doc = custom.NewHandler(md, DefaultParams(), testSchema(t)).NewDocument()
	assertValues(t, doc, "created", "2020-12-25T00:00:00Z")

	_, err = LookupFactory("fancy", nil)
	if err == nil || !strings.Contains(err.Error(), "unknown content handler factory") {
		t.Errorf("expected unknown factory error, got %v", err)
	}
}

func TestLowerName(t *testing.T) {
	tests := map[string]string{
		"Content-Type": "content_type",
		"dc:title":     "dc_title",
		"X-Parsed-By2": "x_parsed_by2",
	}
	for in, want := range tests {
		if got := lowerName(in); got != want {
			t.Errorf("lowerName(%q): expected %q, got %q", in, want, got)
		}
	}
}
