// Package kv is the storage medium under the progress engine: a durable map
// of string keys to whole byte payloads. Each Set replaces the value in one
// step; there is no coordination between processes sharing a backend.
package kv

import (
	"context"
	"errors"
)

// Keys owned by the engine. Wiping the engine removes all of them.
const (
	KeyProgress      = "progress"
	KeySchemaVersion = "progress.schema-version"
	KeyJournal       = "journal"
)

// AllKeys lists every key a full wipe must clear.
var AllKeys = []string{KeyProgress, KeySchemaVersion, KeyJournal}

// ErrUnavailable is returned by backends that cannot persist anything.
var ErrUnavailable = errors.New("storage unavailable")

type Backend interface {
	// Get returns the stored value and true, or nil and false when the key
	// is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Unavailable is the backend for non-persistent execution contexts.
type Unavailable struct{}

func (Unavailable) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, ErrUnavailable
}

func (Unavailable) Set(context.Context, string, []byte) error { return ErrUnavailable }

func (Unavailable) Remove(context.Context, string) error { return ErrUnavailable }
