// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces the keys written in a shared Redis.
const DefaultPrefix = "fxauth:"

// Redis is a Store backed by a Redis server.
// Insert relies on SETNX, so concurrent replicas agree on a single value.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis wraps an existing client. Close also closes the client.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

// DialRedis connects to addr ("host:port") and checks the connection.
func DialRedis(ctx context.Context, addr string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("kv: ping Redis %s: %w", addr, err)
	}
	log.Info("Redis connected addr=", addr)
	return NewRedis(rdb, DefaultPrefix), nil
}

// Get returns the value, or ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if errors.Is(err, redis.ErrClosed) {
		return nil, ErrClosed
	}
	return value, err
}

// Insert sets the value without expiration only if the key is absent.
func (r *Redis) Insert(ctx context.Context, key string, value []byte) error {
	ok, err := r.rdb.SetNX(ctx, r.prefix+key, value, 0).Result()
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrExists
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	err := r.rdb.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}
