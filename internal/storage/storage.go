package storage

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("storage: key not found")

// KV is the durable client-state store. Keys are slash separated
// ("console/<id>/admin_token"); values are opaque bytes.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
}

// Namespaced prefixes every key with ns + "/".
type Namespaced struct {
	KV KV
	NS string
}

func WithNamespace(kv KV, ns string) *Namespaced {
	return &Namespaced{KV: kv, NS: strings.Trim(ns, "/")}
}

func (n *Namespaced) key(k string) string {
	if n.NS == "" {
		return k
	}
	return n.NS + "/" + k
}

func (n *Namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.KV.Get(ctx, n.key(key))
}

func (n *Namespaced) Put(ctx context.Context, key string, value []byte) error {
	return n.KV.Put(ctx, n.key(key), value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.KV.Delete(ctx, n.key(key))
}
