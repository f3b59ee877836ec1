package main

import (
	"context"
	"fmt"
	"os"

	"ndcduns/spl"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// MappingWriter writes MappingRow records to a zstd-compressed Parquet file.
// Mapping files are small, so a single row group with page statistics is
// enough for predicate pushdown on ndc_digits and duns.
type MappingWriter struct {
	file   *os.File
	writer *parquet.GenericWriter[MappingRow]
	count  int
}

// NewMappingWriter creates the Parquet file at filename.
func NewMappingWriter(filename string) (*MappingWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[MappingRow](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.PageBufferSize(8*1024),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("ndc_loader", "1.0", ""),
	)

	return &MappingWriter{
		file:   file,
		writer: writer,
	}, nil
}

// Write writes a batch of rows.
func (w *MappingWriter) Write(rows []MappingRow) (int, error) {
	n, err := w.writer.Write(rows)
	w.count += n
	if err != nil {
		return n, fmt.Errorf("write parquet rows: %w", err)
	}
	return n, nil
}

// Close flushes the row group and closes the file.
func (w *MappingWriter) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}

// Count returns the total number of rows written.
func (w *MappingWriter) Count() int {
	return w.count
}

// parquetSink replaces a Parquet file with the mappings of each run. The
// file is written beside the destination and renamed over it on success.
type parquetSink struct {
	path      string
	batchSize int
}

func newParquetSink(path string, batchSize int) *parquetSink {
	if batchSize <= 0 {
		batchSize = 10000
	}
	return &parquetSink{path: path, batchSize: batchSize}
}

func (s *parquetSink) Name() string { return "parquet " + s.path }

func (s *parquetSink) Replace(ctx context.Context, run Run, mappings []spl.Mapping) (int, error) {
	tmp := s.path + ".tmp"
	w, err := NewMappingWriter(tmp)
	if err != nil {
		return 0, err
	}

	runID := run.ID.String()
	batch := make([]MappingRow, 0, min(s.batchSize, len(mappings)))
	for _, m := range mappings {
		batch = append(batch, toMappingRow(runID, m))
		if len(batch) >= s.batchSize {
			if err := ctx.Err(); err != nil {
				w.Close()
				os.Remove(tmp)
				return 0, err
			}
			if _, err := w.Write(batch); err != nil {
				w.Close()
				os.Remove(tmp)
				return 0, err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := w.Write(batch); err != nil {
			w.Close()
			os.Remove(tmp)
			return 0, err
		}
	}
	if err := w.Close(); err != nil {
		os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("replace %s: %w", s.path, err)
	}
	return w.Count(), nil
}
