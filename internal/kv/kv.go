// Package kv provides the string-keyed persistent storage the reminder store writes to.
package kv

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("kv: key not found")

// Store is a synchronous string key-value store. Every Set overwrites the whole value.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the backend named in opts.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		return NewSQLite(opts.SQLitePath)
	case BackendRedis:
		return DialRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Backend)
	}
}
