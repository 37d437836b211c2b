// This file seeds the base units into an empty catalog on first run.
package catalog

import (
	"fmt"
	"time"
)

// builtinUnit describes one unit seeded on first startup.
type builtinUnit struct {
	name       string
	kind       string
	dimension  string
	base       string
	ratio      string
	offset     string
	components []ComponentRecord
}

// builtinUnits defines the SI core and currency units every catalog starts
// with. Derivations may reference any other builtin; the loader resolves the
// order.
var builtinUnits = []builtinUnit{
	{name: "metre", kind: KindPrimary, dimension: "length"},
	{name: "kilometre", kind: KindDerived, dimension: "length", base: "metre", ratio: "1000"},
	{name: "millimetre", kind: KindDerived, dimension: "length", base: "metre", ratio: "0.001"},

	{name: "second", kind: KindPrimary, dimension: "time"},
	{name: "minute", kind: KindDerived, dimension: "time", base: "second", ratio: "60"},
	{name: "hour", kind: KindDerived, dimension: "time", base: "minute", ratio: "60"},

	{name: "gram", kind: KindPrimary, dimension: "mass"},
	{name: "kilogram", kind: KindDerived, dimension: "mass", base: "gram", ratio: "1000"},
	{name: "tonne", kind: KindDerived, dimension: "mass", base: "kilogram", ratio: "1000"},

	{name: "kelvin", kind: KindPrimary, dimension: "temperature"},
	{name: "celsius", kind: KindOffset, dimension: "temperature", base: "kelvin", ratio: "1", offset: "273.15"},

	{name: "usd", kind: KindPrimary, dimension: "price"},
	{name: "usd_cent", kind: KindDerived, dimension: "price", base: "usd", ratio: "0.01"},

	{name: "metre_per_second", kind: KindComplex, dimension: "length*time^-1",
		components: []ComponentRecord{{Unit: "metre", Power: 1}, {Unit: "second", Power: -1}}},
}

// Seed inserts the builtin units when the units table is empty. Seeding is
// idempotent: a catalog that already holds any unit is left untouched.
func Seed(st *Store) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.db == nil {
		return ErrClosed
	}

	var count int
	if err := st.db.QueryRow("SELECT COUNT(*) FROM units").Scan(&count); err != nil {
		return fmt.Errorf("counting units: %w", err)
	}
	if count > 0 {
		return nil
	}

	nowStr := time.Now().UTC().Format(time.RFC3339)

	tx, err := st.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, bu := range builtinUnits {
		components, err := encodeComponents(bu.components)
		if err != nil {
			return fmt.Errorf("encoding components for %s: %w", bu.name, err)
		}

		_, err = tx.Exec(
			`INSERT INTO units (unit_id, name, kind, dimension, base, ratio, offset_value, components, scale, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			newID(), bu.name, bu.kind, bu.dimension,
			nullable(bu.base), nullable(bu.ratio), nullable(bu.offset),
			nullable(components), nil, nowStr,
		)
		if err != nil {
			return fmt.Errorf("seeding unit %s: %w", bu.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	return nil
}
