// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"encoding/json"
	"testing"
)

func TestRecord_PutAndGet(t *testing.T) {
	r := New()
	r.Put("title", "a")
	r.Put("author", "x")
	r.Put("title", "b")

	if got := r.Get("title"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Get(title) = %v, want [a b]", got)
	}
	if got := r.FirstValue("author"); got != "x" {
		t.Errorf("FirstValue(author) = %v, want x", got)
	}
	if r.FirstValue("missing") != nil {
		t.Error("expected nil for missing field")
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "title" || names[1] != "author" {
		t.Errorf("Names() = %v, want [title author]", names)
	}
}

func TestRecord_ReplaceValuesKeepsPosition(t *testing.T) {
	r := New()
	r.Put("a", 1)
	r.Put("b", 2)
	r.Put("c", 3)

	r.ReplaceValues("b", 20, 21)
	names := r.Names()
	if names[1] != "b" {
		t.Fatalf("expected b to stay at index 1, got %v", names)
	}
	if got := r.Get("b"); len(got) != 2 || got[0] != 20 {
		t.Errorf("Get(b) = %v", got)
	}

	r.ReplaceValues("b")
	if r.Has("b") || r.Len() != 2 {
		t.Errorf("expected b removed, got %v", r.Names())
	}
}

func TestRecord_ZeroValue(t *testing.T) {
	var r Record
	r.Put("x", "y")
	if !r.Has("x") {
		t.Error("zero value record should accept puts")
	}
}

func TestRecord_Copy(t *testing.T) {
	r := New()
	r.Put("a", "1")
	cp := r.Copy()
	cp.Put("a", "2")
	if len(r.Get("a")) != 1 {
		t.Error("copy must not share value slices")
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	r := New()
	r.Put("id", "doc1")
	r.Put("body", []byte("raw"))
	r.PutAll("tags", "x", "y")

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":["doc1"],"body":["raw"],"tags":["x","y"]}`
	if string(data) != want {
		t.Errorf("MarshalJSON = %s, want %s", data, want)
	}
}

func TestRecord_String(t *testing.T) {
	r := New()
	r.Put(FieldAttachmentBody, []byte("hello"))
	r.Put(FieldID, "1")
	want := "{_attachment_body=[<5 bytes>], id=[1]}"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
