// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gravity converts national gravity survey observations held in a
// SQLite database into one NetCDF point dataset per survey.
package gravity

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/geoconv/pkg/types"
)

// Store manages the gravity observation SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the gravity database at path, creating the schema
// when it does not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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

// DB exposes the underlying handle for loaders and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS surveys (
			surveyid TEXT PRIMARY KEY,
			surveyname TEXT,
			stategroup TEXT,
			operator TEXT,
			stations INTEGER,
			gravacc TEXT,
			gndelevmeth TEXT,
			countryid TEXT,
			startdate TEXT,
			enddate TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS observations (
			obsno INTEGER PRIMARY KEY AUTOINCREMENT,
			surveyid TEXT NOT NULL REFERENCES surveys(surveyid),
			entrydate TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'A',
			access_code TEXT NOT NULL DEFAULT 'O',
			geodetic_datum TEXT NOT NULL DEFAULT 'GDA94',
			dlat REAL,
			dlong REAL,
			grav REAL,
			gravacc_code INTEGER,
			gndelev REAL,
			meterhgt REAL,
			nvalue REAL,
			ellipsoidhgt REAL,
			ellipsoidmeterhgt REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_surveyid ON observations(surveyid)`,
		`CREATE TABLE IF NOT EXISTS accuracymethod (
			code TEXT PRIMARY KEY,
			description TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// observationColumns is the set of columns a settings file may map to
// NetCDF variables. Column names from settings are checked against it
// before being interpolated into SQL.
var observationColumns = map[string]bool{
	"dlat":              true,
	"dlong":             true,
	"grav":              true,
	"gravacc_code":      true,
	"gndelev":           true,
	"meterhgt":          true,
	"nvalue":            true,
	"ellipsoidhgt":      true,
	"ellipsoidmeterhgt": true,
}

// qualifyingFilter restricts observations to released, open-access GDA94
// points with a complete measurement set. Duplicated stations (same
// coordinates within a survey) are resolved to the most recent entry via
// the o2 self-join: a row survives only when no newer entry for the same
// station exists.
const qualifyingFilter = `
	FROM observations o1
	LEFT JOIN observations o2
		ON o1.surveyid = o2.surveyid
		AND o1.dlat = o2.dlat
		AND o1.dlong = o2.dlong
		AND o1.geodetic_datum = o2.geodetic_datum
		AND o1.access_code = o2.access_code
		AND o1.status = o2.status
		AND (o2.entrydate > o1.entrydate
			OR (o2.entrydate = o1.entrydate AND o2.obsno > o1.obsno))
	WHERE o1.surveyid = ?
		AND o1.status = 'A'
		AND o1.access_code = 'O'
		AND o1.geodetic_datum = 'GDA94'
		AND o1.dlat IS NOT NULL
		AND o1.dlong IS NOT NULL
		AND o1.grav IS NOT NULL
		AND o1.gndelev IS NOT NULL
		AND o1.meterhgt IS NOT NULL
		AND o1.nvalue IS NOT NULL
		AND o1.ellipsoidhgt IS NOT NULL
		AND o1.ellipsoidmeterhgt IS NOT NULL
		AND o2.obsno IS NULL`

// SurveyIDs returns the identifiers of surveys that have at least one
// releasable GDA94 observation, in ascending order.
func (s *Store) SurveyIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT surveyid FROM surveys gs
		WHERE EXISTS (
			SELECT 1 FROM observations o
			WHERE o.surveyid = gs.surveyid
				AND o.dlat IS NOT NULL
				AND o.dlong IS NOT NULL
				AND o.status = 'A'
				AND o.access_code = 'O'
				AND o.geodetic_datum = 'GDA94'
		)
		ORDER BY surveyid`)
	if err != nil {
		return nil, fmt.Errorf("listing surveys: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning survey id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SurveyMetadata returns the survey-level metadata for one survey.
func (s *Store) SurveyMetadata(ctx context.Context, surveyID string) (types.SurveyMetadata, error) {
	var meta types.SurveyMetadata
	var name, state, operator, gravacc, elevmeth, start, end sql.NullString
	var stations sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT surveyid, surveyname, stategroup, operator, stations,
			gravacc, gndelevmeth, startdate, enddate
		FROM surveys WHERE surveyid = ?`, surveyID).
		Scan(&meta.SurveyID, &name, &state, &operator, &stations,
			&gravacc, &elevmeth, &start, &end)
	if err == sql.ErrNoRows {
		return meta, fmt.Errorf("survey %s not found", surveyID)
	}
	if err != nil {
		return meta, fmt.Errorf("reading survey %s: %w", surveyID, err)
	}
	meta.SurveyName = name.String
	meta.State = state.String
	meta.Operator = operator.String
	meta.Stations = int(stations.Int64)
	meta.GravityAccuracy = gravacc.String
	meta.ElevationMethod = elevmeth.String
	meta.StartDate = start.String
	meta.EndDate = end.String
	return meta, nil
}

// ObservationCount returns the number of qualifying observations for one
// survey.
func (s *Store) ObservationCount(ctx context.Context, surveyID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT count(*)"+qualifyingFilter, surveyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting observations for survey %s: %w", surveyID, err)
	}
	return count, nil
}

// Observations returns one column of qualifying observations for a survey,
// ordered by observation number so values from separate calls align
// point-for-point.
func (s *Store) Observations(ctx context.Context, surveyID, column string) ([]float64, error) {
	if !observationColumns[column] {
		return nil, fmt.Errorf("unknown observation column %q", column)
	}

	query := fmt.Sprintf("SELECT o1.%s", column) + qualifyingFilter + " ORDER BY o1.obsno"
	rows, err := s.db.QueryContext(ctx, query, surveyID)
	if err != nil {
		return nil, fmt.Errorf("reading %s for survey %s: %w", column, surveyID, err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// AccuracyMethods returns the accuracy method lookup table rendered as a
// single attribute string, "code: description" pairs joined in code order.
func (s *Store) AccuracyMethods(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, description FROM accuracymethod`)
	if err != nil {
		return "", fmt.Errorf("reading accuracy methods: %w", err)
	}
	defer rows.Close()

	var pairs []string
	for rows.Next() {
		var code, desc string
		if err := rows.Scan(&code, &desc); err != nil {
			return "", fmt.Errorf("scanning accuracy method: %w", err)
		}
		pairs = append(pairs, code+": "+desc)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "; "), nil
}
