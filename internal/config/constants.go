package config

// Canonical column labels of the export-declaration dataset, as they appear
// after header normalization (trimmed, uppercased).
const (
	ColFormNumber      = "NUMERO_FORMULARIO"
	ColSerialNumber    = "NUMERO_SERIE"
	ColDeclarationDate = "FECHA_DECLARACION_EXPORTACION"

	ColUnitCount   = "CANTIDAD_UNIDADES_FISICAS"
	ColGrossWeight = "PESO_BRUTO_KGS"
	ColNetWeight   = "PESO_NETO_KGS"
	ColFOBUSD      = "VALOR_FOB_USD"
	ColFOBPesos    = "VALOR_FOB_PESOS"

	ColExporterTaxID   = "NIT_EXPORTADOR"
	ColExporterName    = "RAZON_SOCIAL_EXPORTADOR"
	ColExporterAddress = "DIREC_EXPORTADOR"
	ColCountryCode     = "COD_PAIS_DESTINO"
	ColCountryName     = "PAIS_DESTINO_FINAL"
	ColSubheading      = "SUBPARTIDA"
)

// SerialNumberAliases are the alternate spellings of the serial-number column
// seen in source files, in precedence order. Matched after the same
// trim+uppercase normalization applied to every header.
var SerialNumberAliases = []string{"NUM_SERIE", "NUMERO SERIE"}

// MeasureColumns are the numeric measure fields, coerced during transform
// and null-filled to zero.
var MeasureColumns = []string{
	ColUnitCount,
	ColGrossWeight,
	ColNetWeight,
	ColFOBUSD,
	ColFOBPesos,
}

const (
	// SheetName is the worksheet every source workbook is expected to carry.
	SheetName = "Sheet1"

	// DeclarationDateLayout is the compact numeric date format of the
	// declaration-date column.
	DeclarationDateLayout = "20060102"

	// UnknownCountry fills a missing destination-country name.
	UnknownCountry = "Unknown"

	// CoreFileName is the integrated columnar snapshot under the warehouse dir.
	CoreFileName = "core_exportaciones.parquet"

	// WarehouseFileName is the embedded SQLite database under the warehouse dir.
	WarehouseFileName = "dw_exportaciones.db"

	// StagingFilePattern names per-period staging snapshots.
	StagingFilePattern = "staging_%s.csv"
)

// Warehouse table names.
const (
	TableDimTime      = "DIM_TIME"
	TableDimEmpresa   = "DIM_EMPRESA"
	TableDimPais      = "DIM_PAIS"
	TableDimMercancia = "DIM_MERCANCIA"
	TableFact         = "FACT_EXPORTACIONES"
)
