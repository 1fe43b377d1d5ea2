// ════════════════════════════════════════════════════════════════════════════════════════════════
// CONNECTIVITY STORE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: SQLite-backed store of per-projection connector parameters
//
// Description:
//   An offline store of projection definitions (connector kind/params, delay/weight generator
//   kind/params, row-shape bounds) that the matrix generator streams from instead of holding an
//   entire manifest file in memory. Grounded on the teacher's sql.Open("sqlite3", ...) /
//   QueryRow /  Scan usage in syncharvester.go's pool-count and reserve-flush queries.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package connstore

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"synapsecore/internal/manifest"
	"synapsecore/internal/matrixgen"
)

const schema = `
CREATE TABLE IF NOT EXISTS projections (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	name                TEXT NOT NULL UNIQUE,
	num_rows            INTEGER NOT NULL,
	max_row_synapses    INTEGER NOT NULL,
	num_post            INTEGER NOT NULL,
	weight_fixed_point  INTEGER NOT NULL,
	connector_kind      TEXT NOT NULL,
	connector_params    TEXT NOT NULL,
	delay_kind          TEXT NOT NULL,
	delay_params        TEXT NOT NULL,
	weight_kind         TEXT NOT NULL,
	weight_params       TEXT NOT NULL
);
`

// Store wraps a SQLite database of projection definitions.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connstore: open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("connstore: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Put inserts or replaces a projection's definition, encoding each generator's parameters as a
// manifest.GeneratorSpec JSON blob so the same buildConnector/buildParam resolution the manifest
// loader uses can be reused on read.
func (s *Store) Put(name string, cfg ProjectionRow) error {
	connParams, err := encodeSpec(cfg.Connector)
	if err != nil {
		return err
	}
	delayParams, err := encodeSpec(cfg.Delay)
	if err != nil {
		return err
	}
	weightParams, err := encodeSpec(cfg.Weight)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO projections
			(name, num_rows, max_row_synapses, num_post, weight_fixed_point,
			 connector_kind, connector_params, delay_kind, delay_params, weight_kind, weight_params)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			num_rows=excluded.num_rows, max_row_synapses=excluded.max_row_synapses,
			num_post=excluded.num_post, weight_fixed_point=excluded.weight_fixed_point,
			connector_kind=excluded.connector_kind, connector_params=excluded.connector_params,
			delay_kind=excluded.delay_kind, delay_params=excluded.delay_params,
			weight_kind=excluded.weight_kind, weight_params=excluded.weight_params`,
		name, cfg.NumRows, cfg.MaxRowSynapses, cfg.NumPost, cfg.WeightFixedPoint,
		cfg.Connector.Kind, connParams, cfg.Delay.Kind, delayParams, cfg.Weight.Kind, weightParams)
	if err != nil {
		return fmt.Errorf("connstore: put %q: %w", name, err)
	}
	return nil
}

// Count returns the number of stored projections.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM projections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("connstore: count: %w", err)
	}
	return n, nil
}

// ProjectionRow is the in-memory shape of a stored projection, mirroring manifest.ProjectionSpec
// minus its name (the Store's primary key).
type ProjectionRow struct {
	NumRows          int
	MaxRowSynapses   int
	NumPost          int
	WeightFixedPoint int
	Connector        manifest.GeneratorSpec
	Delay            manifest.GeneratorSpec
	Weight           manifest.GeneratorSpec
}

// Get loads one projection by name and resolves it directly to a matrixgen.Config.
func (s *Store) Get(name string) (matrixgen.Config, error) {
	var row ProjectionRow
	var connParams, delayParams, weightParams string
	err := s.db.QueryRow(`
		SELECT num_rows, max_row_synapses, num_post, weight_fixed_point,
		       connector_kind, connector_params, delay_kind, delay_params, weight_kind, weight_params
		FROM projections WHERE name = ?`, name).Scan(
		&row.NumRows, &row.MaxRowSynapses, &row.NumPost, &row.WeightFixedPoint,
		&row.Connector.Kind, &connParams, &row.Delay.Kind, &delayParams, &row.Weight.Kind, &weightParams)
	if err == sql.ErrNoRows {
		return matrixgen.Config{}, fmt.Errorf("connstore: projection %q not found", name)
	}
	if err != nil {
		return matrixgen.Config{}, fmt.Errorf("connstore: get %q: %w", name, err)
	}
	if err := decodeSpec(connParams, &row.Connector); err != nil {
		return matrixgen.Config{}, err
	}
	if err := decodeSpec(delayParams, &row.Delay); err != nil {
		return matrixgen.Config{}, err
	}
	if err := decodeSpec(weightParams, &row.Weight); err != nil {
		return matrixgen.Config{}, err
	}

	spec := manifest.ProjectionSpec{
		Name:             name,
		NumRows:          row.NumRows,
		MaxRowSynapses:   row.MaxRowSynapses,
		NumPost:          row.NumPost,
		WeightFixedPoint: row.WeightFixedPoint,
		Connector:        row.Connector,
		Delay:            row.Delay,
		Weight:           row.Weight,
	}
	return spec.Config()
}

// Names lists every stored projection name, in insertion order.
func (s *Store) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM projections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("connstore: names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("connstore: names: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
