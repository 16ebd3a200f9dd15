package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"exportdw/internal/config"
	"exportdw/internal/dataset"
)

// Reader ingests raw spreadsheets into cleaned per-period frames.
type Reader struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewReader creates a Reader. A nil logger falls back to slog.Default.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{cfg: cfg, logger: logger}
}

// ReadAll ingests every configured period in order. Missing files yield
// empty frames; a malformed file aborts the run.
func (r *Reader) ReadAll(ctx context.Context) (map[string]*dataset.Frame, error) {
	frames := make(map[string]*dataset.Frame, len(r.cfg.Periods))
	for _, p := range r.cfg.Periods {
		frame, err := r.ReadPeriod(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("period %s: %w", p.Name, err)
		}
		frames[p.Name] = frame
	}
	return frames, nil
}

// ReadPeriod reads one period's workbook, cleans it and writes the staging
// snapshot. A missing file returns an empty frame and no error.
func (r *Reader) ReadPeriod(ctx context.Context, p config.Period) (*dataset.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rawPath := r.cfg.RawFilePath(p)
	r.logger.Info("reading raw file",
		slog.String("period", p.Name),
		slog.String("path", rawPath))

	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		r.logger.Warn("raw file not found, skipping period",
			slog.String("period", p.Name),
			slog.String("path", rawPath))
		return dataset.New(), nil
	}

	frame, err := readWorkbook(rawPath)
	if err != nil {
		return nil, err
	}

	r.logger.Info("rows read",
		slog.String("period", p.Name),
		slog.Int("row_count", len(frame.Rows)))

	if err := r.writeStaging(p, frame); err != nil {
		return nil, err
	}
	return frame, nil
}

// readWorkbook loads Sheet1 of an xlsx file into a frame. The first row is
// the header, normalized to trimmed uppercase. Fully-empty rows are dropped;
// ragged rows are padded to the header width.
func readWorkbook(path string) (*dataset.Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", config.SheetName, err)
	}
	if len(rows) == 0 {
		return dataset.New(), nil
	}

	header := make([]string, len(rows[0]))
	for i, label := range rows[0] {
		header[i] = strings.ToUpper(strings.TrimSpace(label))
	}
	frame := dataset.New(header...)

	for _, row := range rows[1:] {
		empty := true
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		cells := make([]dataset.Cell, len(header))
		for i := range header {
			var v string
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			if v == "" {
				cells[i] = dataset.Null()
			} else {
				cells[i] = dataset.String(v)
			}
		}
		frame.AppendRow(cells)
	}
	return frame, nil
}

// writeStaging persists a period's cleaned frame as a CSV snapshot,
// replacing any prior snapshot for the period.
func (r *Reader) writeStaging(p config.Period, frame *dataset.Frame) error {
	path := r.cfg.StagingFilePath(p)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open staging file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(frame.Columns); err != nil {
		return fmt.Errorf("failed to write staging header: %w", err)
	}
	record := make([]string, len(frame.Columns))
	for _, row := range frame.Rows {
		for i, cell := range row {
			record[i] = cell.Display()
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write staging row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush staging file: %w", err)
	}

	r.logger.Info("staging snapshot written",
		slog.String("period", p.Name),
		slog.String("path", path))
	return nil
}
