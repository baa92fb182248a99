package engine

import (
	"bufio"
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pivotreport/internal/models"
)

const csvChunkRows = 4096

// LoadFiles loads every file concurrently and concatenates the records in
// the order the paths were given.
func LoadFiles(ctx context.Context, paths []string, log *zap.Logger) ([]models.Record, error) {
	if log == nil {
		log = zap.NewNop()
	}

	parts := make([][]models.Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			recs, err := LoadFile(ctx, p, log)
			if err != nil {
				return err
			}
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]models.Record, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// LoadFile loads a .csv or .json dataset.
func LoadFile(ctx context.Context, path string, log *zap.Logger) ([]models.Record, error) {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var recs []models.Record
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		recs, err = ReadCSV(ctx, f)
	case ".json":
		recs, err = ReadJSON(f)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q: %s", ext, path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	log.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", len(recs)),
		zap.Duration("elapsed", time.Since(start)))
	return recs, nil
}

// ReadCSV reads a headed CSV into records. Every column is read as text;
// empty cells are left out of the record.
func ReadCSV(ctx context.Context, r io.Reader) ([]models.Record, error) {
	br := bufio.NewReader(r)

	// --- HEADER ---
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read header: %w", err)
	}
	line = strings.TrimPrefix(line, "\ufeff")
	if strings.TrimSpace(line) == "" {
		return []models.Record{}, nil
	}
	names, err := stdcsv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	fields := make([]arrow.Field, len(names))
	for i, n := range names {
		names[i] = strings.TrimSpace(n)
		fields[i] = arrow.Field{Name: names[i], Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	// --- BODY ---
	rdr := csv.NewReader(br, schema,
		csv.WithChunk(csvChunkRows),
		csv.WithNullReader(true, ""),
		csv.WithLazyQuotes(true),
	)
	defer rdr.Release()

	recs := make([]models.Record, 0)
	for rdr.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch := rdr.Record()
		cols := make([]*array.String, len(names))
		for i := range names {
			cols[i] = batch.Column(i).(*array.String)
		}
		for row := 0; row < int(batch.NumRows()); row++ {
			rec := make(models.Record, len(names))
			for i, col := range cols {
				if col.IsNull(row) {
					continue
				}
				rec[names[i]] = strings.Clone(col.Value(row))
			}
			recs = append(recs, rec)
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return recs, nil
}

// ReadJSON reads a JSON array of objects. Numbers keep their literal form
// so integer-looking labels such as years are not reformatted.
func ReadJSON(r io.Reader) ([]models.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var recs []models.Record
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if recs == nil {
		recs = []models.Record{}
	}
	return recs, nil
}
