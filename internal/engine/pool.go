package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
)

// ShardedProcessor partitions clients across independent engine shards.
// Every record for a given client lands on the same shard and each shard
// is drained by a single worker, so per-client input order is preserved
// while unrelated clients proceed in parallel. This leans on the
// engine's per-client isolation: no operation observes another client's
// entry, so shards share nothing.
type ShardedProcessor struct {
	shards []*shard
	pool   *ants.Pool
	logger *slog.Logger
	wg     sync.WaitGroup
}

type shard struct {
	engine  *Engine
	records chan transaction.Record
}

// shardBuffer bounds how far the reader can run ahead of a slow shard.
const shardBuffer = 256

// NewShardedProcessor creates a processor with the given number of
// shards, each drained by one worker from an ants pool.
func NewShardedProcessor(shardCount int, logger *slog.Logger) (*ShardedProcessor, error) {
	if shardCount < 1 {
		return nil, fmt.Errorf("shard count must be at least 1, got %d", shardCount)
	}

	pool, err := ants.NewPool(shardCount)
	if err != nil {
		return nil, err
	}

	p := &ShardedProcessor{
		shards: make([]*shard, shardCount),
		pool:   pool,
		logger: logger,
	}

	for i := range p.shards {
		s := &shard{
			engine:  NewEngine(logger.With("shard", i)),
			records: make(chan transaction.Record, shardBuffer),
		}
		p.shards[i] = s

		p.wg.Add(1)
		if err := pool.Submit(func() {
			defer p.wg.Done()
			for rec := range s.records {
				s.engine.Apply(rec)
			}
		}); err != nil {
			// Pool sized to the shard count cannot refuse its workers;
			// treat a refusal as a construction failure.
			p.wg.Done()
			pool.Release()
			return nil, err
		}
	}

	return p, nil
}

// Submit routes the record to its client's shard, blocking when that
// shard's buffer is full. Records with the same client id are never
// reordered.
func (p *ShardedProcessor) Submit(rec transaction.Record) {
	idx := int(rec.ClientID) % len(p.shards)
	p.shards[idx].records <- rec
}

// Close stops accepting records, waits for every shard to drain, and
// releases the worker pool. Accounts must only be read after Close
// returns.
func (p *ShardedProcessor) Close() {
	for _, s := range p.shards {
		close(s.records)
	}
	p.wg.Wait()
	p.pool.Release()
}

// Accounts merges the final account tables of all shards, sorted by
// ascending client id.
func (p *ShardedProcessor) Accounts() []account.Account {
	var out []account.Account
	for _, s := range p.shards {
		out = append(out, s.engine.Accounts()...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}
