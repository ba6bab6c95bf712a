package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendGeneration(ctx context.Context, data GenerationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO generation_events
		(sequence, timestamp, session_id, topic, count, cache_key, cache_hit,
		 placeholder, repairs, latency_ms, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.SessionID, data.Topic, data.Count, data.CacheKey,
		boolInt(data.CacheHit), boolInt(data.Placeholder), data.Repairs, data.LatencyMs,
		data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save generation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryGenerationEvents(ctx context.Context, opts QueryOpts) ([]GenerationEventRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, opts.SessionID)
	}

	q := `SELECT id, sequence, timestamp, session_id, topic, count, cache_key, cache_hit,
		placeholder, repairs, latency_ms, error_message FROM generation_events` +
		whereClause(where) + " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query generation events: %w", err)
	}
	defer rows.Close()

	var out []GenerationEventRecord
	for rows.Next() {
		var (
			rec                   GenerationEventRecord
			ts                    int64
			cacheHit, placeholder int
		)
		err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.SessionID, &rec.Topic, &rec.Count,
			&rec.CacheKey, &cacheHit, &placeholder, &rec.Repairs, &rec.LatencyMs, &rec.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("scan generation event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts).UTC()
		rec.CacheHit = cacheHit != 0
		rec.Placeholder = placeholder != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}
