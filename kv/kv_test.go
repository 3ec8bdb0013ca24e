// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package kv_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teal-finance/fxauth/kv"
)

type backend struct {
	name string
	open func(t *testing.T) kv.Store
}

var backends = []backend{
	{"badger-memory", func(t *testing.T) kv.Store {
		t.Helper()
		s, err := kv.OpenBadgerInMemory()
		require.NoError(t, err)
		return s
	}},
	{"badger-dir", func(t *testing.T) kv.Store {
		t.Helper()
		s, err := kv.OpenBadger(t.TempDir())
		require.NoError(t, err)
		return s
	}},
	{"redis", func(t *testing.T) kv.Store {
		t.Helper()
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		return kv.NewRedis(rdb, kv.DefaultPrefix)
	}},
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	for _, b := range backends {
		b := b

		t.Run(b.name, func(t *testing.T) {
			t.Parallel()

			s := b.open(t)
			defer s.Close()

			_, err := s.Get(context.Background(), "salt")
			assert.ErrorIs(t, err, kv.ErrNotFound)
		})
	}
}

func TestInsertThenGet(t *testing.T) {
	t.Parallel()

	for _, b := range backends {
		b := b

		t.Run(b.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s := b.open(t)
			defer s.Close()

			require.NoError(t, s.Insert(ctx, "salt", []byte("nblVMlxYtvt0rxo3BML3zw")))

			got, err := s.Get(ctx, "salt")
			require.NoError(t, err)
			assert.Equal(t, []byte("nblVMlxYtvt0rxo3BML3zw"), got)
		})
	}
}

func TestInsertNeverOverwrites(t *testing.T) {
	t.Parallel()

	for _, b := range backends {
		b := b

		t.Run(b.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s := b.open(t)
			defer s.Close()

			require.NoError(t, s.Insert(ctx, "salt", []byte("first")))
			assert.ErrorIs(t, s.Insert(ctx, "salt", []byte("second")), kv.ErrExists)

			got, err := s.Get(ctx, "salt")
			require.NoError(t, err)
			assert.Equal(t, []byte("first"), got)
		})
	}
}

func TestConcurrentInsertSingleWinner(t *testing.T) {
	t.Parallel()

	for _, b := range backends {
		b := b

		t.Run(b.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s := b.open(t)
			defer s.Close()

			const writers = 16
			errs := make([]error, writers)
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs[i] = s.Insert(ctx, "salt", []byte{byte('a' + i)})
				}(i)
			}
			wg.Wait()

			winners := 0
			for _, err := range errs {
				if err == nil {
					winners++
				} else {
					assert.ErrorIs(t, err, kv.ErrExists)
				}
			}
			assert.Equal(t, 1, winners)
		})
	}
}

func TestBadgerPersists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	s, err := kv.OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, "salt", []byte("persisted")))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close must be idempotent")

	_, err = s.Get(ctx, "salt")
	assert.ErrorIs(t, err, kv.ErrClosed)

	s, err = kv.OpenBadger(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "salt")
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

func TestRedisPrefix(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	s := kv.NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "blog:")
	defer s.Close()

	require.NoError(t, s.Insert(context.Background(), "salt", []byte("xyz")))

	got, err := mr.Get("blog:salt")
	require.NoError(t, err)
	assert.Equal(t, "xyz", got)
}
