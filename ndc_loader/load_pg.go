package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ndcduns/ndc_loader/db"
	"ndcduns/spl"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultBatchSize = 1000

// connect opens a pool against connStr and verifies it.
func connect(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection: %w", err)
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

func initializeSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

// pgSink stores mappings in ndc_duns_mappings. Each Replace is one
// transaction: the table is truncated and refilled with COPY batches, so
// readers see either the previous run or the new one.
type pgSink struct {
	pool      *pgxpool.Pool
	batchSize int
}

func newPgSink(pool *pgxpool.Pool, batchSize int) *pgSink {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &pgSink{pool: pool, batchSize: batchSize}
}

func (s *pgSink) Name() string { return "postgres" }

func (s *pgSink) Replace(ctx context.Context, run Run, mappings []spl.Mapping) (int, error) {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)
	q := db.New(tx)

	runID := pgtype.UUID{Bytes: run.ID, Valid: true}
	if err := q.CreateLoadRun(ctx, db.CreateLoadRunParams{
		RunID:  runID,
		Mode:   run.Mode.String(),
		Source: run.Source,
	}); err != nil {
		return 0, fmt.Errorf("create load run: %w", err)
	}
	if err := q.TruncateMappings(ctx); err != nil {
		return 0, fmt.Errorf("truncate mappings: %w", err)
	}

	var inserted, rejected int
	lastLog := time.Now()
	params := make([]db.InsertMappingsParams, 0, min(s.batchSize, len(mappings)))
	for off := 0; off < len(mappings); off += s.batchSize {
		end := min(off+s.batchSize, len(mappings))
		params = params[:0]
		for _, m := range mappings[off:end] {
			params = append(params, mappingParams(runID, m))
		}

		n, err := copyBatch(ctx, tx, params)
		if err != nil {
			if ctx.Err() != nil {
				return inserted, ctx.Err()
			}
			log.Printf("batch %d-%d failed, inserting row by row: %v", off, end, err)
			n, err = insertRows(ctx, tx, params)
			if err != nil {
				return inserted, err
			}
			rejected += len(params) - n
		}
		inserted += n

		if time.Since(lastLog) >= 5*time.Second {
			log.Printf("  progress: %d/%d mappings (%.0f rows/s)",
				inserted, len(mappings), float64(inserted)/time.Since(start).Seconds())
			lastLog = time.Now()
		}
	}

	if err := q.FinishLoadRun(ctx, db.FinishLoadRunParams{
		RunID:     runID,
		Documents: int32(run.Stats.Documents),
		Failed:    int32(run.Stats.Failed),
		Mappings:  int32(inserted),
	}); err != nil {
		return inserted, fmt.Errorf("finish load run: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return inserted, fmt.Errorf("commit: %w", err)
	}
	if rejected > 0 {
		log.Printf("%d mappings rejected by postgres", rejected)
	}
	return inserted, nil
}

// copyBatch COPYs params inside a savepoint so a failed batch leaves the
// surrounding transaction usable.
func copyBatch(ctx context.Context, tx pgx.Tx, params []db.InsertMappingsParams) (int, error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("savepoint: %w", err)
	}
	n, err := db.New(sp).InsertMappings(ctx, params)
	if err != nil {
		sp.Rollback(ctx)
		return 0, err
	}
	if err := sp.Commit(ctx); err != nil {
		return 0, err
	}
	return int(n), nil
}

// insertRows inserts params one at a time, each in its own savepoint, and
// logs the rows postgres rejects.
func insertRows(ctx context.Context, tx pgx.Tx, params []db.InsertMappingsParams) (int, error) {
	var n int
	for _, p := range params {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return n, fmt.Errorf("savepoint: %w", err)
		}
		err = db.New(sp).InsertMapping(ctx, db.InsertMappingParams(p))
		if err != nil {
			sp.Rollback(ctx)
			if ctx.Err() != nil {
				return n, ctx.Err()
			}
			log.Printf("insert NDC %s DUNS %s: %v", textOr(p.Ndc, "NULL"), textOr(p.Duns, "NULL"), err)
			continue
		}
		if err := sp.Commit(ctx); err != nil {
			return n, fmt.Errorf("release savepoint: %w", err)
		}
		n++
	}
	return n, nil
}

// MatchEstablishments replaces the establishment registry and rebuilds
// ndc_establishments from the current mappings.
func (s *pgSink) MatchEstablishments(ctx context.Context, entries []Establishment) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)
	q := db.New(tx)

	if err := q.TruncateEstablishments(ctx); err != nil {
		return 0, fmt.Errorf("truncate establishments: %w", err)
	}
	params := make([]db.InsertEstablishmentsParams, len(entries))
	for i, e := range entries {
		params[i] = db.InsertEstablishmentsParams{
			Duns:    e.DUNS,
			Fei:     optToPgText(e.FEI),
			Address: optToPgText(e.Address),
		}
	}
	if _, err := q.InsertEstablishments(ctx, params); err != nil {
		return 0, fmt.Errorf("copy establishments: %w", err)
	}

	if err := q.TruncateNDCEstablishments(ctx); err != nil {
		return 0, fmt.Errorf("truncate ndc_establishments: %w", err)
	}
	matched, err := q.MatchNDCEstablishments(ctx)
	if err != nil {
		return 0, fmt.Errorf("match establishments: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return matched, nil
}

func mappingParams(runID pgtype.UUID, m spl.Mapping) db.InsertMappingsParams {
	return db.InsertMappingsParams{
		RunID:     runID,
		Ndc:       optToPgText(m.NDC),
		Duns:      optToPgText(m.DUNS),
		NdcDigits: optToPgText(m.NDCDigits),
	}
}

// sanitizeUTF8 replaces invalid UTF-8 bytes with spaces.
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, " ")
}

func optToPgText(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: sanitizeUTF8(*s), Valid: true}
}

func textOr(t pgtype.Text, fallback string) string {
	if !t.Valid {
		return fallback
	}
	return t.String
}
