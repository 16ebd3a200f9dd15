package transform

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"exportdw/internal/config"
	"exportdw/internal/dataset"
)

// Transformer integrates staging frames into the typed core dataset.
type Transformer struct {
	logger *slog.Logger
}

// New creates a Transformer. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{logger: logger}
}

// Integrate produces the integrated, typed, deduplicated dataset from the
// period frames. An empty result signals a failed run; downstream stages
// must treat it as "nothing to do".
func (t *Transformer) Integrate(ctx context.Context, periods []config.Period, frames map[string]*dataset.Frame) *dataset.Frame {
	if err := ctx.Err(); err != nil {
		return dataset.New()
	}

	all := t.concatenate(periods, frames)
	if all.Empty() {
		t.logger.Error("no staging data to integrate")
		return dataset.New()
	}
	t.logger.Info("periods concatenated", slog.Int("row_count", len(all.Rows)))

	// Frames normally arrive with normalized headers from ingest, but the
	// alias match is defined over normalized labels, so normalize again.
	for i, col := range all.Columns {
		all.Columns[i] = strings.ToUpper(strings.TrimSpace(col))
	}
	reconcileSerialColumn(all)

	if missing := missingKeyColumns(all); len(missing) > 0 {
		t.logger.Error("required key columns missing",
			slog.Any("missing", missing))
		return dataset.New()
	}

	parseDates(all, config.ColDeclarationDate)
	for _, col := range config.MeasureColumns {
		coerceNumeric(all, col)
	}

	before := len(all.Rows)
	deduplicate(all)
	t.logger.Info("deduplicated",
		slog.Int("row_count", len(all.Rows)),
		slog.Int("duplicates_dropped", before-len(all.Rows)))

	fillNulls(all)
	return all
}

// concatenate merges all non-empty period frames in period order. Columns
// are the union in first-seen order; rows from frames lacking a column get
// null cells there.
func (t *Transformer) concatenate(periods []config.Period, frames map[string]*dataset.Frame) *dataset.Frame {
	out := dataset.New()
	for _, p := range periods {
		frame := frames[p.Name]
		if frame.Empty() {
			continue
		}
		for _, col := range frame.Columns {
			if !out.HasColumn(col) {
				out.Columns = append(out.Columns, col)
			}
		}
		for i := range frame.Rows {
			row := make([]dataset.Cell, len(out.Columns))
			for j, col := range out.Columns {
				row[j] = frame.Cell(i, frame.ColumnIndex(col))
			}
			out.Rows = append(out.Rows, row)
		}
	}
	// A later period can widen the union, leaving earlier rows short.
	for i, row := range out.Rows {
		if len(row) < len(out.Columns) {
			padded := make([]dataset.Cell, len(out.Columns))
			copy(padded, row)
			out.Rows[i] = padded
		}
	}
	return out
}

// reconcileSerialColumn renames an alternate spelling of the serial-number
// column to the canonical one. Aliases are checked in precedence order; if
// the canonical column already exists nothing is touched.
func reconcileSerialColumn(f *dataset.Frame) {
	if f.HasColumn(config.ColSerialNumber) {
		return
	}
	for _, alias := range config.SerialNumberAliases {
		if f.RenameColumn(alias, config.ColSerialNumber) {
			return
		}
	}
}

func missingKeyColumns(f *dataset.Frame) []string {
	var missing []string
	for _, col := range []string{config.ColFormNumber, config.ColSerialNumber} {
		if !f.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// parseDates converts a text column to date cells using the strict 8-digit
// layout. Values that do not match become null; this operation is total.
func parseDates(f *dataset.Frame, col string) {
	idx := f.ColumnIndex(col)
	if idx < 0 {
		return
	}
	for _, row := range f.Rows {
		s, ok := row[idx].StringValue()
		if !ok {
			row[idx] = dataset.Null()
			continue
		}
		d, err := time.Parse(config.DeclarationDateLayout, strings.TrimSpace(s))
		if err != nil {
			row[idx] = dataset.Null()
			continue
		}
		row[idx] = dataset.Date(d)
	}
}

// coerceNumeric converts a text column to number cells. Thousands separators
// are tolerated; anything unparseable becomes null.
func coerceNumeric(f *dataset.Frame, col string) {
	idx := f.ColumnIndex(col)
	if idx < 0 {
		return
	}
	for _, row := range f.Rows {
		if row[idx].IsNull() {
			continue
		}
		if _, ok := row[idx].NumberValue(); ok {
			continue
		}
		s, ok := row[idx].StringValue()
		if !ok {
			row[idx] = dataset.Null()
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
		if err != nil {
			row[idx] = dataset.Null()
			continue
		}
		row[idx] = dataset.Number(v)
	}
}

// deduplicate drops rows sharing a (form number, serial number) key already
// seen. Concatenation order makes "first occurrence" mean earliest period,
// then original row order.
func deduplicate(f *dataset.Frame) {
	formIdx := f.ColumnIndex(config.ColFormNumber)
	serialIdx := f.ColumnIndex(config.ColSerialNumber)

	seen := make(map[string]struct{}, len(f.Rows))
	kept := f.Rows[:0]
	for _, row := range f.Rows {
		key := dataset.KeyOf(row[formIdx], row[serialIdx])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	f.Rows = kept
}

// fillNulls applies the cleaning policy: coerced measure columns get zero,
// the destination-country name gets the sentinel. Other nulls stay.
func fillNulls(f *dataset.Frame) {
	for _, col := range config.MeasureColumns {
		idx := f.ColumnIndex(col)
		if idx < 0 {
			continue
		}
		for _, row := range f.Rows {
			if row[idx].IsNull() {
				row[idx] = dataset.Number(0)
			}
		}
	}

	if idx := f.ColumnIndex(config.ColCountryName); idx >= 0 {
		for _, row := range f.Rows {
			if row[idx].IsNull() {
				row[idx] = dataset.String(config.UnknownCountry)
			}
		}
	}
}
