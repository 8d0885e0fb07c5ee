// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"

	"github.com/leseb/solrcell/pkg/schema"
)

// ZooKeeper is the subset of *zk.Conn used to read a collection's schema.
type ZooKeeper interface {
	Get(path string) ([]byte, *zk.Stat, error)
	Close()
}

// Dialer opens a ZooKeeper session.
type Dialer func(servers []string, timeout time.Duration) (ZooKeeper, error)

// DialZooKeeper connects with the go-zookeeper client.
func DialZooKeeper(servers []string, timeout time.Duration) (ZooKeeper, error) {
	conn, _, err := zk.Connect(servers, timeout)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// zkSessionTimeout matches Solr's default zkClientTimeout.
const zkSessionTimeout = 30 * time.Second

// parseZkHost splits "h1:2181,h2:2181/solr" into servers and a chroot.
func parseZkHost(zkHost string) ([]string, string) {
	hosts, chroot := zkHost, ""
	if i := strings.Index(zkHost, "/"); i >= 0 {
		hosts, chroot = zkHost[:i], strings.TrimSuffix(zkHost[i:], "/")
	}
	var servers []string
	for _, h := range strings.Split(hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			servers = append(servers, h)
		}
	}
	return servers, chroot
}

// fromZooKeeper reads the collection's config set name and then the schema
// file of that config set.
func (l *Locator) fromZooKeeper(ctx context.Context) (*schema.IndexSchema, error) {
	if l.cfg.Collection == "" {
		return nil, errors.New("zkHost requires a collection")
	}
	servers, chroot := parseZkHost(l.cfg.ZkHost)
	if len(servers) == 0 {
		return nil, fmt.Errorf("invalid zkHost %q", l.cfg.ZkHost)
	}

	conn, err := l.dial(servers, zkSessionTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to zookeeper %s: %w", l.cfg.ZkHost, err)
	}
	defer conn.Close()

	configName, err := readConfigName(conn, chroot, l.cfg.Collection)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, name := range schemaFileNames {
		p := path.Join(chroot, "/configs", configName, name)
		data, _, err := conn.Get(p)
		if errors.Is(err, zk.ErrNoNode) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		l.logger.Debug("loading schema from zookeeper", "path", p, "collection", l.cfg.Collection)
		s, err := schema.ParseXML(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("config set %q has no schema in zookeeper (tried %v)", configName, schemaFileNames)
}

// readConfigName reads the config set name from /collections/<c>, falling
// back to the collection's state.json.
func readConfigName(conn ZooKeeper, chroot, collection string) (string, error) {
	p := path.Join(chroot, "/collections", collection)
	data, _, err := conn.Get(p)
	if err != nil {
		if errors.Is(err, zk.ErrNoNode) {
			return "", fmt.Errorf("collection %q not found in zookeeper", collection)
		}
		return "", fmt.Errorf("read %s: %w", p, err)
	}

	var props struct {
		ConfigName string `json:"configName"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &props); err != nil {
			return "", fmt.Errorf("decode %s: %w", p, err)
		}
	}
	if props.ConfigName != "" {
		return props.ConfigName, nil
	}

	statePath := path.Join(p, "state.json")
	data, _, err = conn.Get(statePath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", statePath, err)
	}
	var state map[string]struct {
		ConfigName string `json:"configName"`
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return "", fmt.Errorf("decode %s: %w", statePath, err)
	}
	if name := state[collection].ConfigName; name != "" {
		return name, nil
	}
	return "", fmt.Errorf("collection %q has no config set name", collection)
}
