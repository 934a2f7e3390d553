// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog maintains a SQLite metadata catalog of converted NetCDF
// datasets: spatial extents, keywords and distribution URLs, searchable by
// keyword, bounding box and access protocol.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/geoconv/pkg/types"
)

// defaultPath is used when the configuration names no catalog file.
const defaultPath = "catalog.sqlite"

// Store manages the dataset metadata SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database, creating the schema when it
// does not exist.
func Open(cfg types.CatalogConfig) (*Store, error) {
	path := cfg.CatalogPath
	if path == "" {
		path = defaultPath
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS survey (
			survey_id INTEGER PRIMARY KEY AUTOINCREMENT,
			ga_survey_id TEXT NOT NULL UNIQUE,
			survey_name TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS dataset (
			dataset_id INTEGER PRIMARY KEY AUTOINCREMENT,
			metadata_uuid TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			survey_id INTEGER REFERENCES survey(survey_id),
			longitude_min REAL NOT NULL,
			longitude_max REAL NOT NULL,
			latitude_min REAL NOT NULL,
			latitude_max REAL NOT NULL,
			convex_hull_wkt TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS keyword (
			keyword_id INTEGER PRIMARY KEY AUTOINCREMENT,
			keyword_value TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS dataset_keyword (
			dataset_id INTEGER NOT NULL REFERENCES dataset(dataset_id),
			keyword_id INTEGER NOT NULL REFERENCES keyword(keyword_id),
			PRIMARY KEY (dataset_id, keyword_id)
		)`,
		`CREATE TABLE IF NOT EXISTS protocol (
			protocol_id INTEGER PRIMARY KEY AUTOINCREMENT,
			protocol_value TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS distribution (
			distribution_id INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset_id INTEGER NOT NULL REFERENCES dataset(dataset_id),
			protocol_id INTEGER NOT NULL REFERENCES protocol(protocol_id),
			distribution_url TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_distribution_dataset ON distribution(dataset_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// AddDataset inserts or replaces a dataset record, assigning a metadata
// UUID when the record carries none. It returns the UUID under which the
// dataset is stored.
func (s *Store) AddDataset(ctx context.Context, ds types.Dataset) (string, error) {
	if ds.Title == "" {
		return "", fmt.Errorf("dataset needs a title")
	}
	id := ds.MetadataUUID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	surveyRef, err := upsertSurvey(ctx, tx, ds)
	if err != nil {
		return "", err
	}

	// Replacing an existing record drops its links first so keywords and
	// distributions do not accumulate across re-registrations.
	var datasetID int64
	err = tx.QueryRowContext(ctx,
		`SELECT dataset_id FROM dataset WHERE metadata_uuid = ?`, id).Scan(&datasetID)
	switch {
	case err == nil:
		for _, stmt := range []string{
			`DELETE FROM dataset_keyword WHERE dataset_id = ?`,
			`DELETE FROM distribution WHERE dataset_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, datasetID); err != nil {
				return "", fmt.Errorf("clearing dataset links: %w", err)
			}
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE dataset SET title = ?, survey_id = ?,
				longitude_min = ?, longitude_max = ?,
				latitude_min = ?, latitude_max = ?,
				convex_hull_wkt = ?
			WHERE dataset_id = ?`,
			ds.Title, surveyRef,
			ds.LongitudeMin, ds.LongitudeMax, ds.LatitudeMin, ds.LatitudeMax,
			ds.ConvexHullWKT, datasetID)
		if err != nil {
			return "", fmt.Errorf("updating dataset: %w", err)
		}

	case err == sql.ErrNoRows:
		result, err := tx.ExecContext(ctx, `
			INSERT INTO dataset (metadata_uuid, title, survey_id,
				longitude_min, longitude_max, latitude_min, latitude_max,
				convex_hull_wkt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, ds.Title, surveyRef,
			ds.LongitudeMin, ds.LongitudeMax, ds.LatitudeMin, ds.LatitudeMax,
			ds.ConvexHullWKT)
		if err != nil {
			return "", fmt.Errorf("inserting dataset: %w", err)
		}
		datasetID, err = result.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("reading dataset id: %w", err)
		}

	default:
		return "", fmt.Errorf("looking up dataset: %w", err)
	}

	for _, kw := range ds.Keywords {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO keyword (keyword_value) VALUES (?)`, kw); err != nil {
			return "", fmt.Errorf("inserting keyword %q: %w", kw, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO dataset_keyword (dataset_id, keyword_id)
			SELECT ?, keyword_id FROM keyword WHERE keyword_value = ?`,
			datasetID, kw); err != nil {
			return "", fmt.Errorf("linking keyword %q: %w", kw, err)
		}
	}

	for _, dist := range ds.Distributions {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO protocol (protocol_value) VALUES (?)`, dist.Protocol); err != nil {
			return "", fmt.Errorf("inserting protocol %q: %w", dist.Protocol, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO distribution (dataset_id, protocol_id, distribution_url)
			SELECT ?, protocol_id, ? FROM protocol WHERE protocol_value = ?`,
			datasetID, dist.URL, dist.Protocol); err != nil {
			return "", fmt.Errorf("inserting distribution %q: %w", dist.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing dataset: %w", err)
	}
	return id, nil
}

// upsertSurvey ensures a survey row exists for the dataset's survey and
// returns its key, or a null reference when the dataset names no survey.
// A known survey picks up the name when a later registration supplies one.
func upsertSurvey(ctx context.Context, tx *sql.Tx, ds types.Dataset) (sql.NullInt64, error) {
	var ref sql.NullInt64
	if ds.SurveyID == "" {
		return ref, nil
	}
	name := sql.NullString{String: ds.SurveyName, Valid: ds.SurveyName != ""}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO survey (ga_survey_id, survey_name) VALUES (?, ?)`,
		ds.SurveyID, name); err != nil {
		return ref, fmt.Errorf("inserting survey %q: %w", ds.SurveyID, err)
	}
	if name.Valid {
		if _, err := tx.ExecContext(ctx,
			`UPDATE survey SET survey_name = ? WHERE ga_survey_id = ? AND survey_name IS NULL`,
			name, ds.SurveyID); err != nil {
			return ref, fmt.Errorf("naming survey %q: %w", ds.SurveyID, err)
		}
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT survey_id FROM survey WHERE ga_survey_id = ?`, ds.SurveyID).
		Scan(&ref.Int64); err != nil {
		return ref, fmt.Errorf("looking up survey %q: %w", ds.SurveyID, err)
	}
	ref.Valid = true
	return ref, nil
}

// Dataset returns one catalog record by metadata UUID, keywords and
// distributions included.
func (s *Store) Dataset(ctx context.Context, metadataUUID string) (types.Dataset, error) {
	var ds types.Dataset
	var datasetID int64
	var surveyID, surveyName, hull sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT d.dataset_id, d.metadata_uuid, d.title,
			s.ga_survey_id, s.survey_name,
			d.longitude_min, d.longitude_max, d.latitude_min, d.latitude_max,
			d.convex_hull_wkt
		FROM dataset d LEFT JOIN survey s ON s.survey_id = d.survey_id
		WHERE d.metadata_uuid = ?`, metadataUUID).
		Scan(&datasetID, &ds.MetadataUUID, &ds.Title, &surveyID, &surveyName,
			&ds.LongitudeMin, &ds.LongitudeMax, &ds.LatitudeMin, &ds.LatitudeMax, &hull)
	if err == sql.ErrNoRows {
		return ds, fmt.Errorf("dataset %s not found", metadataUUID)
	}
	if err != nil {
		return ds, fmt.Errorf("reading dataset %s: %w", metadataUUID, err)
	}
	ds.SurveyID = surveyID.String
	ds.SurveyName = surveyName.String
	ds.ConvexHullWKT = hull.String

	if err := s.loadLinks(ctx, datasetID, &ds); err != nil {
		return ds, err
	}
	return ds, nil
}

func (s *Store) loadLinks(ctx context.Context, datasetID int64, ds *types.Dataset) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT k.keyword_value FROM dataset_keyword dk
		JOIN keyword k ON k.keyword_id = dk.keyword_id
		WHERE dk.dataset_id = ? ORDER BY k.keyword_value`, datasetID)
	if err != nil {
		return fmt.Errorf("reading keywords: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return fmt.Errorf("scanning keyword: %w", err)
		}
		ds.Keywords = append(ds.Keywords, kw)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	distRows, err := s.db.QueryContext(ctx, `
		SELECT d.distribution_url, p.protocol_value FROM distribution d
		JOIN protocol p ON p.protocol_id = d.protocol_id
		WHERE d.dataset_id = ? ORDER BY d.distribution_url`, datasetID)
	if err != nil {
		return fmt.Errorf("reading distributions: %w", err)
	}
	defer distRows.Close()
	for distRows.Next() {
		var dist types.Distribution
		if err := distRows.Scan(&dist.URL, &dist.Protocol); err != nil {
			return fmt.Errorf("scanning distribution: %w", err)
		}
		ds.Distributions = append(ds.Distributions, dist)
	}
	return distRows.Err()
}
