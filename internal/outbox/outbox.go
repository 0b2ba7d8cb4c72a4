// Package outbox hands funding decisions off through Redis.
//
// Executable records are queued for an external submitter, which signs and
// sends the fundContract() call. Every record, executable or not, is kept as
// the contract's last decision and in a short history.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	"github.com/0gfoundation/0g-payroll-funder/internal/funding"
)

// Redis key templates; %s = payroll contract (checksummed).
const (
	QueueKeyFmt   = "funding:queue:%s"
	LastKeyFmt    = "funding:last:%s"
	HistoryKeyFmt = "funding:decisions:%s"
)

// HistoryLimit caps the per-contract decision history.
const HistoryLimit = 100

// Record is one evaluation as stored and served.
type Record struct {
	funding.Report
	ChainID     *big.Int  `json:"chain_id"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Store publishes and reads records for a single payroll contract.
type Store struct {
	rdb      *redis.Client
	contract common.Address
}

func NewStore(rdb *redis.Client, contract common.Address) *Store {
	return &Store{rdb: rdb, contract: contract}
}

func (s *Store) key(format string) string {
	return fmt.Sprintf(format, s.contract.Hex())
}

// Publish stores rec as the last decision, prepends it to the history and,
// when it is executable, appends it to the submitter queue. The writes are
// applied in a single MULTI/EXEC.
func (s *Store) Publish(ctx context.Context, rec Record) error {
	if rec.Policy.PayrollContract != s.contract {
		return fmt.Errorf("record for %s published to store for %s",
			rec.Policy.PayrollContract.Hex(), s.contract.Hex())
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(LastKeyFmt), raw, 0)
		pipe.LPush(ctx, s.key(HistoryKeyFmt), raw)
		pipe.LTrim(ctx, s.key(HistoryKeyFmt), 0, HistoryLimit-1)
		if rec.Decision.ShouldExecute {
			pipe.RPush(ctx, s.key(QueueKeyFmt), raw)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish record: %w", err)
	}
	return nil
}

// Last returns the most recent record. ok is false when nothing has been
// published yet.
func (s *Store) Last(ctx context.Context) (rec Record, ok bool, err error) {
	raw, err := s.rdb.Get(ctx, s.key(LastKeyFmt)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("get last record: %w", err)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false, fmt.Errorf("unmarshal last record: %w", err)
	}
	return rec, true, nil
}

// History returns up to limit records, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	items, err := s.rdb.LRange(ctx, s.key(HistoryKeyFmt), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange history: %w", err)
	}
	out := make([]Record, 0, len(items))
	for _, raw := range items {
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			// skip entries written by an incompatible version
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Pending returns the number of queued instructions not yet taken by the submitter.
func (s *Store) Pending(ctx context.Context) (int64, error) {
	n, err := s.rdb.LLen(ctx, s.key(QueueKeyFmt)).Result()
	if err != nil {
		return 0, fmt.Errorf("llen queue: %w", err)
	}
	return n, nil
}
