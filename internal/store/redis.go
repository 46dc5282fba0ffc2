package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// transactRetries bounds the optimistic-lock loop in Transact before
// giving up with ErrConflict.
const transactRetries = 5

// Redis stores each document under its path as a plain key and keeps a
// child-index set per parent path so Children stays O(children) instead of
// scanning the keyspace. Transact uses WATCH on the anchor key: if another
// client writes it between read and EXEC, the whole pipeline is discarded
// and the read-modify-write retried.
type Redis struct {
	rdb *redis.Client
}

// NewRedis wraps an existing go-redis client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func indexKey(parentPath string) string {
	return "idx:" + parentPath
}

func (s *Redis) Get(ctx context.Context, path string) ([]byte, error) {
	doc, err := s.rdb.Get(ctx, path).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return doc, nil
}

func (s *Redis) Set(ctx context.Context, path string, doc []byte) error {
	pipe := s.rdb.TxPipeline()
	applyWrite(ctx, pipe, Write{Path: path, Doc: doc})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (s *Redis) Children(ctx context.Context, path string) (map[string][]byte, error) {
	names, err := s.rdb.SMembers(ctx, indexKey(path)).Result()
	if err != nil {
		return nil, fmt.Errorf("children of %s: %w", path, err)
	}

	out := make(map[string][]byte, len(names))
	for _, name := range names {
		doc, err := s.rdb.Get(ctx, path+"/"+name).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // stale index entry
		}
		if err != nil {
			return nil, fmt.Errorf("children of %s: %w", path, err)
		}
		out[name] = doc
	}
	return out, nil
}

func (s *Redis) Transact(ctx context.Context, path string, fn func(current []byte) ([]Write, error)) error {
	txn := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, path).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		writes, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, w := range writes {
				applyWrite(ctx, pipe, w)
			}
			return nil
		})
		return err
	}

	for i := 0; i < transactRetries; i++ {
		err := s.rdb.Watch(ctx, txn, path)
		if errors.Is(err, redis.TxFailedErr) {
			continue // anchor changed under us — retry from a fresh read
		}
		return err
	}
	return ErrConflict
}

// applyWrite queues one document write plus its child-index maintenance.
func applyWrite(ctx context.Context, pipe redis.Pipeliner, w Write) {
	if w.Doc == nil {
		pipe.Del(ctx, w.Path)
		if p := parent(w.Path); p != "" {
			pipe.SRem(ctx, indexKey(p), childName(w.Path))
		}
		return
	}
	pipe.Set(ctx, w.Path, w.Doc, 0)
	if p := parent(w.Path); p != "" {
		pipe.SAdd(ctx, indexKey(p), childName(w.Path))
	}
}
