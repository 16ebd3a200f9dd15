package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"exportdw/internal/config"
	"exportdw/internal/dataset"
)

// dimension accumulates distinct natural attribute tuples in first-seen
// order, assigning 1-based surrogate keys.
type dimension struct {
	ids  map[string]int
	rows [][]dataset.Cell
}

func newDimension() *dimension {
	return &dimension{ids: make(map[string]int)}
}

// keyFor returns the surrogate key for a tuple, inserting it when unseen.
func (d *dimension) keyFor(tuple []dataset.Cell) int {
	k := dataset.KeyOf(tuple...)
	if id, ok := d.ids[k]; ok {
		return id
	}
	id := len(d.rows) + 1
	d.ids[k] = id
	d.rows = append(d.rows, tuple)
	return id
}

// BuildSemanticLayer rebuilds the dimension and fact tables from the
// integrated dataset, fully replacing prior versions. An empty dataset is
// logged as an error and performs no writes.
func (s *Store) BuildSemanticLayer(ctx context.Context, core *dataset.Frame) error {
	if core.Empty() {
		s.logger.Error("integrated dataset is empty, semantic layer not built")
		return nil
	}

	var (
		dateIdx    = core.ColumnIndex(config.ColDeclarationDate)
		nitIdx     = core.ColumnIndex(config.ColExporterTaxID)
		razonIdx   = core.ColumnIndex(config.ColExporterName)
		direcIdx   = core.ColumnIndex(config.ColExporterAddress)
		codPaisIdx = core.ColumnIndex(config.ColCountryCode)
		paisIdx    = core.ColumnIndex(config.ColCountryName)
		subIdx     = core.ColumnIndex(config.ColSubheading)
		fobIdx     = core.ColumnIndex(config.ColFOBUSD)
		pesoIdx    = core.ColumnIndex(config.ColNetWeight)
		cantIdx    = core.ColumnIndex(config.ColUnitCount)
		formIdx    = core.ColumnIndex(config.ColFormNumber)
	)

	dimTime := newDimension()
	dimEmpresa := newDimension()
	dimPais := newDimension()
	dimMercancia := newDimension()

	type factRow struct {
		timeID, empresaID, paisID, mercanciaID int
		fob, peso, cantidad                    dataset.Cell
		form                                   dataset.Cell
	}
	facts := make([]factRow, 0, len(core.Rows))

	for i := range core.Rows {
		facts = append(facts, factRow{
			timeID:      dimTime.keyFor([]dataset.Cell{core.Cell(i, dateIdx)}),
			empresaID:   dimEmpresa.keyFor([]dataset.Cell{core.Cell(i, nitIdx), core.Cell(i, razonIdx), core.Cell(i, direcIdx)}),
			paisID:      dimPais.keyFor([]dataset.Cell{core.Cell(i, codPaisIdx), core.Cell(i, paisIdx)}),
			mercanciaID: dimMercancia.keyFor([]dataset.Cell{core.Cell(i, subIdx)}),
			fob:         core.Cell(i, fobIdx),
			peso:        core.Cell(i, pesoIdx),
			cantidad:    core.Cell(i, cantIdx),
			form:        core.Cell(i, formIdx),
		})
	}

	if err := s.writeDimTime(ctx, dimTime); err != nil {
		return err
	}
	if err := s.writeDimension(ctx, config.TableDimEmpresa,
		[]string{config.ColExporterTaxID, config.ColExporterName, config.ColExporterAddress},
		"EMPRESA_ID", dimEmpresa); err != nil {
		return err
	}
	if err := s.writeDimension(ctx, config.TableDimPais,
		[]string{config.ColCountryCode, config.ColCountryName},
		"PAIS_ID", dimPais); err != nil {
		return err
	}
	if err := s.writeDimension(ctx, config.TableDimMercancia,
		[]string{config.ColSubheading},
		"MERCANCIA_ID", dimMercancia); err != nil {
		return err
	}

	err := s.replaceTable(ctx, config.TableFact,
		fmt.Sprintf(`CREATE TABLE %s (
			TIME_ID INTEGER,
			EMPRESA_ID INTEGER,
			PAIS_ID INTEGER,
			MERCANCIA_ID INTEGER,
			%s REAL,
			%s REAL,
			%s REAL,
			%s TEXT
		)`, config.TableFact, config.ColFOBUSD, config.ColNetWeight, config.ColUnitCount, config.ColFormNumber),
		fmt.Sprintf("INSERT INTO %s VALUES (?, ?, ?, ?, ?, ?, ?, ?)", config.TableFact),
		len(facts),
		func(i int, stmt *sql.Stmt) error {
			f := facts[i]
			_, err := stmt.ExecContext(ctx,
				f.timeID, f.empresaID, f.paisID, f.mercanciaID,
				sqlValue(f.fob), sqlValue(f.peso), sqlValue(f.cantidad), sqlValue(f.form))
			return err
		})
	if err != nil {
		return err
	}

	s.logger.Info("semantic layer built",
		slog.Int("fact_rows", len(facts)),
		slog.Int("time_rows", len(dimTime.rows)),
		slog.Int("empresa_rows", len(dimEmpresa.rows)),
		slog.Int("pais_rows", len(dimPais.rows)),
		slog.Int("mercancia_rows", len(dimMercancia.rows)))
	return nil
}

// writeDimTime writes DIM_TIME with its derived year/month/day components.
// A null declaration date still gets a dimension row (with NULL components)
// so fact rows with unparseable dates keep a valid reference.
func (s *Store) writeDimTime(ctx context.Context, d *dimension) error {
	ddl := fmt.Sprintf(`CREATE TABLE %s (
		%s TEXT,
		TIME_ID INTEGER PRIMARY KEY,
		YEAR INTEGER,
		MONTH INTEGER,
		DAY INTEGER
	)`, config.TableDimTime, config.ColDeclarationDate)
	insert := fmt.Sprintf("INSERT INTO %s VALUES (?, ?, ?, ?, ?)", config.TableDimTime)

	return s.replaceTable(ctx, config.TableDimTime, ddl, insert, len(d.rows),
		func(i int, stmt *sql.Stmt) error {
			cell := d.rows[i][0]
			if date, ok := cell.DateValue(); ok {
				_, err := stmt.ExecContext(ctx,
					date.Format("2006-01-02"), i+1, date.Year(), int(date.Month()), date.Day())
				return err
			}
			_, err := stmt.ExecContext(ctx, nil, i+1, nil, nil, nil)
			return err
		})
}

// writeDimension writes a plain dimension table: natural attribute columns
// followed by the surrogate key column.
func (s *Store) writeDimension(ctx context.Context, table string, columns []string, keyColumn string, d *dimension) error {
	ddl := fmt.Sprintf("CREATE TABLE %s (", table)
	insert := fmt.Sprintf("INSERT INTO %s VALUES (", table)
	for _, col := range columns {
		ddl += col + " TEXT, "
		insert += "?, "
	}
	ddl += keyColumn + " INTEGER PRIMARY KEY)"
	insert += "?)"

	return s.replaceTable(ctx, table, ddl, insert, len(d.rows),
		func(i int, stmt *sql.Stmt) error {
			args := make([]any, 0, len(columns)+1)
			for _, cell := range d.rows[i] {
				args = append(args, sqlValue(cell))
			}
			args = append(args, i+1)
			_, err := stmt.ExecContext(ctx, args...)
			return err
		})
}

// replaceTable drops, recreates and repopulates one table inside a single
// transaction. Atomicity is per table only; a failure partway through the
// build leaves earlier tables in their new state.
func (s *Store) replaceTable(ctx context.Context, table, ddl, insert string, n int, bind func(int, *sql.Stmt) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := bind(i, stmt); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table, err)
	}
	s.logger.Info("table replaced", slog.String("table", table), slog.Int("row_count", n))
	return nil
}

// sqlValue converts a cell to a driver value; null cells become SQL NULL.
func sqlValue(c dataset.Cell) any {
	switch c.Kind() {
	case dataset.KindString:
		v, _ := c.StringValue()
		return v
	case dataset.KindNumber:
		v, _ := c.NumberValue()
		return v
	case dataset.KindDate:
		v, _ := c.DateValue()
		return v.Format("2006-01-02")
	default:
		return nil
	}
}
