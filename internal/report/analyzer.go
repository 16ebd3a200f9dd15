// Package report runs the fixed analysis queries against the warehouse and
// renders the results to a text stream.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"exportdw/internal/warehouse"
)

// Analyzer executes the reporting queries.
type Analyzer struct {
	store  *warehouse.Store
	logger *slog.Logger
	out    io.Writer
}

// NewAnalyzer creates an Analyzer writing report output to out.
func NewAnalyzer(store *warehouse.Store, logger *slog.Logger, out io.Writer) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{store: store, logger: logger, out: out}
}

// TopCompaniesByFOB returns the top companies by FOB value for a month.
func (a *Analyzer) TopCompaniesByFOB(ctx context.Context, year, month, limit int) (*warehouse.Result, error) {
	return a.store.Query(ctx, `
		SELECT e.RAZON_SOCIAL_EXPORTADOR, SUM(f.VALOR_FOB_USD) AS TOTAL_FOB_USD
		FROM FACT_EXPORTACIONES f
		JOIN DIM_TIME t ON f.TIME_ID = t.TIME_ID
		JOIN DIM_EMPRESA e ON f.EMPRESA_ID = e.EMPRESA_ID
		WHERE t.YEAR = ? AND t.MONTH = ?
		GROUP BY e.RAZON_SOCIAL_EXPORTADOR
		ORDER BY TOTAL_FOB_USD DESC
		LIMIT ?`, year, month, limit)
}

// FOBByMonth returns total FOB value aggregated by year and month.
func (a *Analyzer) FOBByMonth(ctx context.Context) (*warehouse.Result, error) {
	return a.store.Query(ctx, `
		SELECT t.YEAR, t.MONTH, SUM(f.VALOR_FOB_USD) AS TOTAL_FOB_USD
		FROM FACT_EXPORTACIONES f
		JOIN DIM_TIME t ON f.TIME_ID = t.TIME_ID
		GROUP BY t.YEAR, t.MONTH
		ORDER BY t.YEAR, t.MONTH`)
}

// TopDestinationsByFOB returns the top destination countries by FOB value
// over a month range within a year.
func (a *Analyzer) TopDestinationsByFOB(ctx context.Context, year, fromMonth, toMonth, limit int) (*warehouse.Result, error) {
	return a.store.Query(ctx, `
		SELECT p.PAIS_DESTINO_FINAL, SUM(f.VALOR_FOB_USD) AS TOTAL_FOB_USD
		FROM FACT_EXPORTACIONES f
		JOIN DIM_TIME t ON f.TIME_ID = t.TIME_ID
		JOIN DIM_PAIS p ON f.PAIS_ID = p.PAIS_ID
		WHERE t.YEAR = ? AND t.MONTH BETWEEN ? AND ?
		GROUP BY p.PAIS_DESTINO_FINAL
		ORDER BY TOTAL_FOB_USD DESC
		LIMIT ?`, year, fromMonth, toMonth, limit)
}

// TopSubheadingsByFOB returns the top merchandise subheadings by FOB value.
func (a *Analyzer) TopSubheadingsByFOB(ctx context.Context, limit int) (*warehouse.Result, error) {
	return a.store.Query(ctx, `
		SELECT m.SUBPARTIDA, SUM(f.VALOR_FOB_USD) AS TOTAL_FOB_USD
		FROM FACT_EXPORTACIONES f
		JOIN DIM_MERCANCIA m ON f.MERCANCIA_ID = m.MERCANCIA_ID
		GROUP BY m.SUBPARTIDA
		ORDER BY TOTAL_FOB_USD DESC
		LIMIT ?`, limit)
}

// TopDestinationsByNetWeight returns the top destination countries by net
// weight exported.
func (a *Analyzer) TopDestinationsByNetWeight(ctx context.Context, limit int) (*warehouse.Result, error) {
	return a.store.Query(ctx, `
		SELECT p.PAIS_DESTINO_FINAL, SUM(f.PESO_NETO_KGS) AS TOTAL_PESO_NETO_KGS
		FROM FACT_EXPORTACIONES f
		JOIN DIM_PAIS p ON f.PAIS_ID = p.PAIS_ID
		GROUP BY p.PAIS_DESTINO_FINAL
		ORDER BY TOTAL_PESO_NETO_KGS DESC
		LIMIT ?`, limit)
}

// Run executes the full fixed report set. Individual query failures are
// logged and collected but do not stop the remaining reports; a run without
// a built warehouse simply produces table-not-found errors here.
func (a *Analyzer) Run(ctx context.Context, year, lastMonth int) error {
	var errs []error

	run := func(title string, query func() (*warehouse.Result, error)) {
		result, err := query()
		if err != nil {
			a.logger.Error("report query failed",
				slog.String("report", title),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", title, err))
			return
		}
		a.render(title, result)
	}

	run(fmt.Sprintf("Top 10 companies by FOB value (%d-%02d)", year, lastMonth), func() (*warehouse.Result, error) {
		return a.TopCompaniesByFOB(ctx, year, lastMonth, 10)
	})
	run("Total FOB value by month", func() (*warehouse.Result, error) {
		return a.FOBByMonth(ctx)
	})
	run(fmt.Sprintf("Top 10 destinations by FOB value (%d-01..%d-%02d)", year, year, lastMonth), func() (*warehouse.Result, error) {
		return a.TopDestinationsByFOB(ctx, year, 1, lastMonth, 10)
	})
	run("Top 10 subheadings by FOB value", func() (*warehouse.Result, error) {
		return a.TopSubheadingsByFOB(ctx, 10)
	})
	run("Top 10 destinations by net weight", func() (*warehouse.Result, error) {
		return a.TopDestinationsByNetWeight(ctx, 10)
	})

	return errors.Join(errs...)
}

// render writes one titled result table to the output stream.
func (a *Analyzer) render(title string, result *warehouse.Result) {
	fmt.Fprintf(a.out, "\n%s\n", title)

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(result.Columns, "\t"))
	for _, row := range result.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}
