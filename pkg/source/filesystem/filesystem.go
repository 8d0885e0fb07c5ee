// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package filesystem

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/leseb/solrcell/pkg/source"
)

func init() {
	source.Providers.Register("filesystem", func(_ context.Context, params map[string]string) (source.Source, error) {
		return New(params["root"], params["include"])
	})
}

// compile-time check
var _ source.Source = (*Source)(nil)

// Source walks a directory tree. Document IDs are slash separated paths
// relative to the root. Hidden files and directories are skipped.
type Source struct {
	root    string
	include string
}

// New creates a filesystem source rooted at root. When include is set,
// only files whose base name matches the glob pattern are listed.
func New(root, include string) (*Source, error) {
	if root == "" {
		return nil, fmt.Errorf("filesystem source: root is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}
	if include != "" {
		if _, err := path.Match(include, ""); err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", include, err)
		}
	}
	return &Source{root: root, include: include}, nil
}

// List walks the root in lexical order and sniffs each file's media type.
func (s *Source) List(ctx context.Context) ([]*source.Document, error) {
	var docs []*source.Document
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != s.root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if s.include != "" {
			if ok, _ := path.Match(s.include, d.Name()); !ok {
				return nil
			}
		}

		doc, err := s.describe(p, d)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}
	return docs, nil
}

func (s *Source) describe(p string, d fs.DirEntry) (*source.Document, error) {
	info, err := d.Info()
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	head, err := source.Sniff(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	mt, charset := source.DetectMimeType("", d.Name(), head)

	return &source.Document{
		ID:       filepath.ToSlash(rel),
		Name:     d.Name(),
		MimeType: mt,
		Charset:  charset,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}, nil
}

// Open opens the file with the given ID. IDs escaping the root are not found.
func (s *Source) Open(_ context.Context, id string) (io.ReadCloser, error) {
	if !fs.ValidPath(id) {
		return nil, fmt.Errorf("document %s: %w", id, source.ErrDocumentNotFound)
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(id)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s: %w", id, source.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	return f, nil
}

// Close is a no-op for the filesystem source.
func (s *Source) Close(_ context.Context) error {
	return nil
}
