// Package catalog persists unit and conversion factor definitions in SQLite
// and rebuilds a units.UnitSystem from them on startup.
package catalog

// Schema DDL. The database is the source of truth for user-defined units, so
// tables are created only when absent and never dropped.
const (
	createUnits = `CREATE TABLE IF NOT EXISTS units (
    unit_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    dimension TEXT NOT NULL,
    base TEXT,
    ratio TEXT,
    offset_value TEXT,
    components TEXT,
    scale TEXT,
    created_at TEXT NOT NULL
);`

	createFactors = `CREATE TABLE IF NOT EXISTS conversion_factors (
    factor_id TEXT PRIMARY KEY,
    quotient TEXT NOT NULL UNIQUE,
    value TEXT NOT NULL,
    unit_name TEXT NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL for the list and dependency queries.
const (
	idxUnitsKind      = `CREATE INDEX IF NOT EXISTS idx_units_kind ON units(kind);`
	idxUnitsDimension = `CREATE INDEX IF NOT EXISTS idx_units_dimension ON units(dimension);`
	idxUnitsBase      = `CREATE INDEX IF NOT EXISTS idx_units_base ON units(base);`
)

// schemaDDL lists all CREATE statements in execution order.
var schemaDDL = []string{
	createUnits,
	createFactors,
	idxUnitsKind,
	idxUnitsDimension,
	idxUnitsBase,
}
