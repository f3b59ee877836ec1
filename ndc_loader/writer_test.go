package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ndcduns/spl"

	"github.com/parquet-go/parquet-go"
)

func TestParquetSinkReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.parquet")
	sink := newParquetSink(path, 2)

	run := newRun(spl.ModeEmitAll, "test")
	mappings := []spl.Mapping{
		spl.NewMapping(strPtr("50090-0001-1"), strPtr("222222222")),
		spl.NewMapping(nil, strPtr("333333333")),
		spl.NewMapping(strPtr("50090-0001-2"), nil),
	}

	n, err := sink.Replace(context.Background(), run, mappings)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if n != 3 {
		t.Errorf("Replace wrote %d rows, expected 3", n)
	}

	rows, err := parquet.ReadFile[MappingRow](path)
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if r.RunID != run.ID.String() {
			t.Errorf("row %d: run_id = %s, expected %s", i, r.RunID, run.ID)
		}
	}
	if str(rows[0].NDC) != "50090-0001-1" || str(rows[0].DUNS) != "222222222" || str(rows[0].NDCDigits) != "5009000011" {
		t.Errorf("row 0 = %s %s %s", str(rows[0].NDC), str(rows[0].DUNS), str(rows[0].NDCDigits))
	}
	if rows[1].NDC != nil || rows[1].NDCDigits != nil || str(rows[1].DUNS) != "333333333" {
		t.Errorf("row 1 = %s %s %s", str(rows[1].NDC), str(rows[1].DUNS), str(rows[1].NDCDigits))
	}
	if str(rows[2].NDC) != "50090-0001-2" || rows[2].DUNS != nil {
		t.Errorf("row 2 = %s %s", str(rows[2].NDC), str(rows[2].DUNS))
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestParquetSinkReplacesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.parquet")
	sink := newParquetSink(path, 0)
	ctx := context.Background()

	first := []spl.Mapping{
		spl.NewMapping(strPtr("1111-2222-01"), strPtr("111111111")),
		spl.NewMapping(strPtr("1111-2222-02"), strPtr("111111111")),
	}
	if _, err := sink.Replace(ctx, newRun(spl.ModeFiltered, "first"), first); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	second := newRun(spl.ModeFiltered, "second")
	if _, err := sink.Replace(ctx, second, first[1:]); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	rows, err := parquet.ReadFile[MappingRow](path)
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after replace, got %d", len(rows))
	}
	if str(rows[0].NDC) != "1111-2222-02" || rows[0].RunID != second.ID.String() {
		t.Errorf("unexpected row %s run %s", str(rows[0].NDC), rows[0].RunID)
	}
}

func TestParquetSinkEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.parquet")
	n, err := newParquetSink(path, 0).Replace(context.Background(), newRun(spl.ModeFiltered, "empty"), nil)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if n != 0 {
		t.Errorf("Replace wrote %d rows, expected 0", n)
	}
	rows, err := parquet.ReadFile[MappingRow](path)
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
