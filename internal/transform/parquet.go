package transform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"exportdw/internal/config"
	"exportdw/internal/dataset"
)

// WriteCore persists the integrated frame as a parquet snapshot at path,
// replacing any previous snapshot. The declaration date is stored as
// epoch-millisecond INT64, measures as DOUBLE, everything else as UTF8;
// every field is OPTIONAL so nulls survive the round trip.
func (t *Transformer) WriteCore(frame *dataset.Frame, path string) error {
	if frame.Empty() {
		return fmt.Errorf("refusing to write empty core snapshot")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create warehouse directory: %w", err)
	}

	meta := schemaFor(frame.Columns)

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file %s: %w", path, err)
	}
	pw, err := writer.NewCSVWriter(meta, fw, 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range frame.Rows {
		rec := make([]*string, len(frame.Columns))
		for i, cell := range row {
			if cell.IsNull() {
				continue
			}
			var v string
			switch cell.Kind() {
			case dataset.KindDate:
				d, _ := cell.DateValue()
				v = strconv.FormatInt(d.UnixMilli(), 10)
			case dataset.KindNumber:
				n, _ := cell.NumberValue()
				v = strconv.FormatFloat(n, 'f', -1, 64)
			default:
				v, _ = cell.StringValue()
			}
			rec[i] = &v
		}
		if err := pw.WriteString(rec); err != nil {
			pw.WriteStop()
			fw.Close()
			return fmt.Errorf("failed to write parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}

	t.logger.Info("core snapshot written",
		slog.String("path", path),
		slog.Int("row_count", len(frame.Rows)))
	return nil
}

// schemaFor builds CSVWriter metadata for the frame's columns.
func schemaFor(columns []string) []string {
	meta := make([]string, len(columns))
	for i, col := range columns {
		name := strings.ReplaceAll(strings.ReplaceAll(col, " ", "_"), ".", "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", i)
		}
		switch {
		case col == config.ColDeclarationDate:
			meta[i] = fmt.Sprintf("name=%s, type=INT64, repetitiontype=OPTIONAL", name)
		case isMeasureColumn(col):
			meta[i] = fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=OPTIONAL", name)
		default:
			meta[i] = fmt.Sprintf("name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL", name)
		}
	}
	return meta
}

func isMeasureColumn(col string) bool {
	for _, m := range config.MeasureColumns {
		if col == m {
			return true
		}
	}
	return false
}
