// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-zookeeper/zk"

	"github.com/leseb/solrcell/pkg/schema"
)

const schemaXML = `<schema name="docs">
  <uniqueKey>id</uniqueKey>
  <fieldType name="string" class="solr.StrField"/>
  <field name="id" type="string"/>
</schema>`

// fakeZK serves nodes from a map.
type fakeZK struct {
	nodes  map[string]string
	closed bool
}

func (f *fakeZK) Get(p string) ([]byte, *zk.Stat, error) {
	data, ok := f.nodes[p]
	if !ok {
		return nil, nil, zk.ErrNoNode
	}
	return []byte(data), &zk.Stat{}, nil
}

func (f *fakeZK) Close() { f.closed = true }

func dialFake(f *fakeZK, gotServers *[]string) Dialer {
	return func(servers []string, _ time.Duration) (ZooKeeper, error) {
		*gotServers = servers
		return f, nil
	}
}

func load(t *testing.T, l *Locator) *schema.IndexSchema {
	t.Helper()
	s, err := l.IndexSchema(context.Background())
	if err != nil {
		t.Fatalf("IndexSchema: %v", err)
	}
	return s
}

func assertErrorContains(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil || !strings.Contains(err.Error(), want) {
		t.Errorf("expected error containing %q, got %v", want, err)
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIndexSchema_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.xml")
	writeFile(t, path, schemaXML)

	s := load(t, New(Config{SchemaFile: path, SolrURL: "http://unused"}))
	if s.Name != "docs" {
		t.Errorf("expected schema docs, got %q", s.Name)
	}
}

func TestIndexSchema_SolrHome(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "docs", "conf", "managed-schema"), schemaXML)

	s := load(t, New(Config{SolrHomeDir: home, Collection: "docs"}))
	if s.FieldOrNil("id") == nil {
		t.Error("expected the id field")
	}

	if _, err := New(Config{SolrHomeDir: home, Collection: "other"}).IndexSchema(context.Background()); err == nil {
		t.Error("expected an error for a collection without a conf directory")
	}
}

func TestIndexSchema_SchemaAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solr/docs/schema" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"schema":{"name":"api","uniqueKey":"id",
			"fieldTypes":[{"name":"string","class":"solr.StrField"}],
			"fields":[{"name":"id","type":"string"}]}}`))
	}))
	defer srv.Close()

	s := load(t, New(Config{SolrURL: srv.URL + "/solr/", Collection: "docs"}, WithHTTPClient(srv.Client())))
	if s.Name != "api" {
		t.Errorf("expected schema api, got %q", s.Name)
	}

	_, err := New(Config{SolrURL: srv.URL + "/solr", Collection: "missing"}).IndexSchema(context.Background())
	assertErrorContains(t, err, "status 404")

	if _, err := New(Config{SolrURL: srv.URL}).IndexSchema(context.Background()); err == nil {
		t.Error("expected an error without a collection")
	}
}

func TestIndexSchema_ZooKeeper(t *testing.T) {
	t.Run("config name on collection node", func(t *testing.T) {
		f := &fakeZK{nodes: map[string]string{
			"/solr/collections/docs":                 `{"configName":"docs_conf"}`,
			"/solr/configs/docs_conf/managed-schema": schemaXML,
		}}
		var servers []string
		l := New(Config{ZkHost: "zk1:2181,zk2:2181/solr", Collection: "docs"}, WithDialer(dialFake(f, &servers)))

		s := load(t, l)
		if s.Name != "docs" {
			t.Errorf("expected schema docs, got %q", s.Name)
		}
		if want := []string{"zk1:2181", "zk2:2181"}; !slices.Equal(servers, want) {
			t.Errorf("expected servers %q, got %q", want, servers)
		}
		if !f.closed {
			t.Error("the ZooKeeper connection should be closed")
		}
	})

	t.Run("config name in state.json", func(t *testing.T) {
		f := &fakeZK{nodes: map[string]string{
			"/collections/docs":            "",
			"/collections/docs/state.json": `{"docs":{"configName":"cfg"}}`,
			"/configs/cfg/schema.xml":      schemaXML,
		}}
		var servers []string
		l := New(Config{ZkHost: "zk:2181", Collection: "docs"}, WithDialer(dialFake(f, &servers)))

		if s := load(t, l); s.FieldOrNil("id") == nil {
			t.Error("expected the id field")
		}
	})

	t.Run("unknown collection", func(t *testing.T) {
		var servers []string
		l := New(Config{ZkHost: "zk:2181", Collection: "docs"}, WithDialer(dialFake(&fakeZK{}, &servers)))
		_, err := l.IndexSchema(context.Background())
		assertErrorContains(t, err, "not found")
	})

	t.Run("dial failure", func(t *testing.T) {
		l := New(Config{ZkHost: "zk:2181", Collection: "docs"}, WithDialer(func([]string, time.Duration) (ZooKeeper, error) {
			return nil, errors.New("refused")
		}))
		_, err := l.IndexSchema(context.Background())
		assertErrorContains(t, err, "refused")
	})
}

func TestIndexSchema_NoSource(t *testing.T) {
	_, err := New(Config{Collection: "docs"}).IndexSchema(context.Background())
	if !errors.Is(err, ErrNoSchemaSource) {
		t.Errorf("expected ErrNoSchemaSource, got %v", err)
	}
}

func TestParseZkHost(t *testing.T) {
	tests := []struct {
		in      string
		servers []string
		chroot  string
	}{
		{"localhost:2181", []string{"localhost:2181"}, ""},
		{"a:2181, b:2181/solr/", []string{"a:2181", "b:2181"}, "/solr"},
		{"a:2181/x/y", []string{"a:2181"}, "/x/y"},
	}
	for _, tt := range tests {
		servers, chroot := parseZkHost(tt.in)
		if !slices.Equal(servers, tt.servers) || chroot != tt.chroot {
			t.Errorf("parseZkHost(%q): expected %q %q, got %q %q", tt.in, tt.servers, tt.chroot, servers, chroot)
		}
	}
}

func TestConfig_Merge(t *testing.T) {
	c := Config{Collection: "docs"}.Merge(Config{Collection: "other", SolrURL: "http://solr"})
	if want := (Config{Collection: "docs", SolrURL: "http://solr"}); c != want {
		t.Errorf("expected %+v, got %+v", want, c)
	}
	if !(Config{}).IsZero() {
		t.Error("an empty config should be zero")
	}
	if c.IsZero() {
		t.Error("a merged config should not be zero")
	}
}

// TestIndexSchema_ZooKeeperIntegration needs a SolrCloud ZooKeeper with the
// collection named by ZK_TEST_COLLECTION (default "gettingstarted").
func TestIndexSchema_ZooKeeperIntegration(t *testing.T) {
	zkHost := os.Getenv("ZK_TEST_HOST")
	if zkHost == "" {
		t.Skip("ZK_TEST_HOST not set")
	}
	collection := os.Getenv("ZK_TEST_COLLECTION")
	if collection == "" {
		collection = "gettingstarted"
	}

	if s := load(t, New(Config{ZkHost: zkHost, Collection: collection})); s.UniqueKey == "" {
		t.Error("expected a unique key")
	}
}
