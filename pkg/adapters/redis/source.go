// Package redis stores raw tables in Redis so a fleet of servers can load the same data.
//
// Each table is a JSON array under <prefix><table>; the set <prefix>index lists the
// table names. Publish announces changes on <prefix>changes so watchers can reload.
package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/tabula/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Source implements ports.TableSource, ports.TablePublisher and ports.Watchable using Redis.
type Source struct {
	client *backend.Client
	prefix string
}

type Option func(*Source)

// WithPrefix sets the key prefix for tables.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = prefix
	}
}

// New creates a new Redis source with options.
func New(address, password string, db int, opts ...Option) *Source {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis source from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Source {
	s := &Source{
		client: client,
		prefix: "tabula:table:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) key(table string) string {
	return s.prefix + table
}

func (s *Source) indexKey() string {
	return s.prefix + "index"
}

func (s *Source) channel() string {
	return s.prefix + "changes"
}

// Rows retrieves a table from Redis.
func (s *Source) Rows(ctx context.Context, table string) ([]map[string]any, error) {
	val, err := s.client.Get(ctx, s.key(table)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", ports.ErrTableNotFound, table)
		}
		return nil, fmt.Errorf("failed to get table %s from redis: %w", table, err)
	}

	dec := json.NewDecoder(bytes.NewReader(val))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal table %s: %w", table, err)
	}
	return rows, nil
}

// Tables lists the indexed tables, sorted.
func (s *Source) Tables(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Publish stores the rows of a table and announces the change.
func (s *Source) Publish(ctx context.Context, table string, rows []map[string]any) error {
	if rows == nil {
		rows = []map[string]any{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal table %s: %w", table, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(table), data, 0)
	pipe.SAdd(ctx, s.indexKey(), table)
	pipe.Publish(ctx, s.channel(), table)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish table %s to redis: %w", table, err)
	}
	return nil
}

// Watch subscribes to change announcements made by Publish.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	sub := s.client.Subscribe(ctx, s.channel())
	// Wait for the subscription to be confirmed so no announcement is missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", s.channel(), err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default: // a reload is already pending
				}
			}
		}
	}()
	return ch, nil
}

// Close closes the redis client.
func (s *Source) Close() error {
	return s.client.Close()
}

var (
	_ ports.TableSource    = (*Source)(nil)
	_ ports.TablePublisher = (*Source)(nil)
	_ ports.Watchable      = (*Source)(nil)
)
