package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DBFileName is the SQLite file kept inside the data directory.
const DBFileName = "catalog.db"

// Unit kinds as stored in the units table.
const (
	KindPrimary = "primary"
	KindDerived = "derived"
	KindOffset  = "offset"
	KindComplex = "complex"
)

// UnitRecord is one persisted unit definition. Which fields are meaningful
// depends on Kind: derived and offset units carry Base and Ratio (offset
// additionally Offset), complex units carry Components and Scale, and
// primary units carry only the dimension.
type UnitRecord struct {
	ID         string
	Name       string
	Kind       string
	Dimension  string
	Base       string
	Ratio      string
	Offset     string
	Components []ComponentRecord
	Scale      string
	CreatedAt  time.Time
}

// ComponentRecord is one unit-name/exponent pair inside a complex
// definition.
type ComponentRecord struct {
	Unit  string `json:"unit"`
	Power int    `json:"power"`
}

// FactorRecord is one persisted cross-dimension conversion factor.
type FactorRecord struct {
	ID        string
	Quotient  string
	Value     string
	UnitName  string
	CreatedAt time.Time
}

// Store is the SQLite-backed unit catalog.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens (creating if necessary) the catalog database inside dataDir and
// ensures the schema exists.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing catalog schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close releases the database handle. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// newID generates an identifier for a new row.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// SaveUnit inserts a unit definition and returns its generated ID. Names are
// unique; saving under a taken name fails with ErrUnitExists.
func (s *Store) SaveUnit(rec UnitRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return "", ErrClosed
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM units WHERE name = ?", rec.Name).Scan(&count); err != nil {
		return "", fmt.Errorf("checking unit name %q: %w", rec.Name, err)
	}
	if count > 0 {
		return "", fmt.Errorf("unit %q: %w", rec.Name, ErrUnitExists)
	}

	components, err := encodeComponents(rec.Components)
	if err != nil {
		return "", fmt.Errorf("encoding components for %q: %w", rec.Name, err)
	}

	id := newID()
	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`INSERT INTO units (unit_id, name, kind, dimension, base, ratio, offset_value, components, scale, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.Name, rec.Kind, rec.Dimension,
		nullable(rec.Base), nullable(rec.Ratio), nullable(rec.Offset),
		nullable(components), nullable(rec.Scale), createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("saving unit %q: %w", rec.Name, err)
	}
	return id, nil
}

// Unit returns the definition stored under name.
func (s *Store) Unit(name string) (UnitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return UnitRecord{}, ErrClosed
	}

	row := s.db.QueryRow(
		`SELECT unit_id, name, kind, dimension, base, ratio, offset_value, components, scale, created_at
		 FROM units WHERE name = ?`, name)
	rec, err := scanUnit(row.Scan)
	if err == sql.ErrNoRows {
		return UnitRecord{}, fmt.Errorf("unit %q: %w", name, ErrUnitNotFound)
	}
	if err != nil {
		return UnitRecord{}, fmt.Errorf("loading unit %q: %w", name, err)
	}
	return rec, nil
}

// Units returns every stored definition in creation order.
func (s *Store) Units() ([]UnitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.Query(
		`SELECT unit_id, name, kind, dimension, base, ratio, offset_value, components, scale, created_at
		 FROM units ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	defer rows.Close()

	var recs []UnitRecord
	for rows.Next() {
		rec, err := scanUnit(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning unit row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	return recs, nil
}

// DeleteUnit removes a unit definition. The unit must not be referenced by
// another unit (as derivation base or complex component) or by a conversion
// factor.
func (s *Store) DeleteUnit(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrClosed
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM units WHERE name = ?", name).Scan(&count); err != nil {
		return fmt.Errorf("checking unit %q: %w", name, err)
	}
	if count == 0 {
		return fmt.Errorf("unit %q: %w", name, ErrUnitNotFound)
	}

	dependents, err := s.dependentsLocked(name)
	if err != nil {
		return fmt.Errorf("checking dependents of %q: %w", name, err)
	}
	if len(dependents) > 0 {
		return fmt.Errorf("unit %q is used by %v: %w", name, dependents, ErrUnitInUse)
	}

	if _, err := s.db.Exec("DELETE FROM units WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting unit %q: %w", name, err)
	}
	return nil
}

// dependentsLocked lists the definitions that reference name as a base, a
// complex component, or a factor unit. Callers hold s.mu.
func (s *Store) dependentsLocked(name string) ([]string, error) {
	var dependents []string

	rows, err := s.db.Query("SELECT name FROM units WHERE base = ?", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		dependents = append(dependents, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	compRows, err := s.db.Query("SELECT name, components FROM units WHERE components IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer compRows.Close()
	for compRows.Next() {
		var n, raw string
		if err := compRows.Scan(&n, &raw); err != nil {
			return nil, err
		}
		comps, err := decodeComponents(raw)
		if err != nil {
			return nil, err
		}
		for _, c := range comps {
			if c.Unit == name {
				dependents = append(dependents, n)
				break
			}
		}
	}
	if err := compRows.Err(); err != nil {
		return nil, err
	}

	factorRows, err := s.db.Query("SELECT quotient FROM conversion_factors WHERE unit_name = ?", name)
	if err != nil {
		return nil, err
	}
	defer factorRows.Close()
	for factorRows.Next() {
		var q string
		if err := factorRows.Scan(&q); err != nil {
			return nil, err
		}
		dependents = append(dependents, "factor "+q)
	}
	return dependents, factorRows.Err()
}

// SaveFactor stores a conversion factor, replacing any factor already
// registered for the same dimension quotient. The factor's unit must already
// be defined.
func (s *Store) SaveFactor(rec FactorRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return "", ErrClosed
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM units WHERE name = ?", rec.UnitName).Scan(&count); err != nil {
		return "", fmt.Errorf("checking factor unit %q: %w", rec.UnitName, err)
	}
	if count == 0 {
		return "", fmt.Errorf("factor unit %q: %w", rec.UnitName, ErrUnitNotFound)
	}

	id := newID()
	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO conversion_factors (factor_id, quotient, value, unit_name, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(quotient) DO UPDATE SET value = excluded.value, unit_name = excluded.unit_name`,
		id, rec.Quotient, rec.Value, rec.UnitName, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("saving factor for %s: %w", rec.Quotient, err)
	}
	return id, nil
}

// Factors returns every stored conversion factor ordered by quotient.
func (s *Store) Factors() ([]FactorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.Query(
		`SELECT factor_id, quotient, value, unit_name, created_at
		 FROM conversion_factors ORDER BY quotient ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing factors: %w", err)
	}
	defer rows.Close()

	var recs []FactorRecord
	for rows.Next() {
		var rec FactorRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Quotient, &rec.Value, &rec.UnitName, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning factor row: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing factors: %w", err)
	}
	return recs, nil
}

// scanUnit reads one units row through the given Scan function.
func scanUnit(scan func(dest ...any) error) (UnitRecord, error) {
	var rec UnitRecord
	var base, ratio, offset, components, scale sql.NullString
	var createdAt string

	err := scan(&rec.ID, &rec.Name, &rec.Kind, &rec.Dimension,
		&base, &ratio, &offset, &components, &scale, &createdAt)
	if err != nil {
		return UnitRecord{}, err
	}

	rec.Base = base.String
	rec.Ratio = ratio.String
	rec.Offset = offset.String
	rec.Scale = scale.String
	if components.Valid && components.String != "" {
		rec.Components, err = decodeComponents(components.String)
		if err != nil {
			return UnitRecord{}, err
		}
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rec, nil
}

// encodeComponents renders the component list as the JSON stored in the
// components column. Empty lists encode as the empty string, stored NULL.
func encodeComponents(comps []ComponentRecord) (string, error) {
	if len(comps) == 0 {
		return "", nil
	}
	data, err := json.Marshal(comps)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeComponents(raw string) ([]ComponentRecord, error) {
	var comps []ComponentRecord
	if err := json.Unmarshal([]byte(raw), &comps); err != nil {
		return nil, fmt.Errorf("%w: bad components %q", ErrInvalidRecord, raw)
	}
	return comps, nil
}

// nullable maps empty strings to NULL so optional columns stay NULL instead
// of empty text.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
