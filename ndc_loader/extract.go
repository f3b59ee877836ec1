package main

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"ndcduns/spl"

	"golang.org/x/sync/errgroup"
)

var errNoDocuments = errors.New("no SPL documents to extract")

// extractAll runs ex over every path with at most workers documents in
// flight. Results are assembled in path order. Documents that fail to parse
// are logged, counted and skipped. In filtered mode mappings are merged
// across documents by NDC, the later document winning.
func extractAll(ctx context.Context, ex *spl.Extractor, paths []string, workers int) ([]spl.Mapping, Stats, error) {
	var stats Stats
	if len(paths) == 0 {
		return nil, stats, errNoDocuments
	}
	if workers < 1 {
		workers = 1
	}

	results := make([][]spl.Mapping, len(paths))
	failures := make([]error, len(paths))

	start := time.Now()
	var done atomic.Int64
	var logMu sync.Mutex
	lastLog := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ms, err := ex.ExtractFile(path)
			if err != nil {
				var docErr *spl.DocumentError
				if !errors.As(err, &docErr) {
					return err
				}
				failures[i] = err
			}
			results[i] = ms

			n := done.Add(1)
			logMu.Lock()
			if time.Since(lastLog) >= 5*time.Second {
				elapsed := time.Since(start).Seconds()
				log.Printf("  progress: %d/%d documents (%.1f%%, %.0f docs/s)",
					n, len(paths), float64(n)/float64(len(paths))*100, float64(n)/elapsed)
				lastLog = time.Now()
			}
			logMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	var all []spl.Mapping
	for i, ms := range results {
		stats.Documents++
		if failures[i] != nil {
			log.Printf("skip %s: %v", filepath.Base(paths[i]), failures[i])
			stats.Failed++
			continue
		}
		stats.addDocument(ms)
		all = append(all, ms...)
	}

	if ex.Config().Mode == spl.ModeFiltered {
		all = mergeByNDC(all)
	}
	stats.Mappings = len(all)
	return all, stats, nil
}

// mergeByNDC keeps one mapping per NDC: the last one seen, at the position
// of the first.
func mergeByNDC(ms []spl.Mapping) []spl.Mapping {
	index := make(map[string]int, len(ms))
	out := make([]spl.Mapping, 0, len(ms))
	for _, m := range ms {
		if m.NDC == nil {
			out = append(out, m)
			continue
		}
		if i, ok := index[*m.NDC]; ok {
			out[i] = m
			continue
		}
		index[*m.NDC] = len(out)
		out = append(out, m)
	}
	return out
}
