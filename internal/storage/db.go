package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"partsclean/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  mode TEXT NOT NULL,
  input TEXT NOT NULL,
  output TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS row_results (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  sourceFile TEXT NOT NULL,
  rowNo INTEGER NOT NULL,
  rawCell TEXT,
  processorsJson TEXT NOT NULL,
  chipsetsJson TEXT NOT NULL,
  UNIQUE(runId, sourceFile, rowNo),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_row_results_runId ON row_results(runId);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(traceID, mode, input, output string, timings map[string]float64, counts map[string]int) (int64, error) {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	result, err := d.conn.Exec(`
INSERT INTO runs (traceId, mode, input, output, timingsJson, countsJson)
VALUES (?, ?, ?, ?, ?, ?)
`, traceID, mode, input, output, string(timingsJSON), string(countsJSON))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) InsertRowResults(runID int64, rows []internal.RowResultRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO row_results (runId, sourceFile, rowNo, rawCell, processorsJson, chipsetsJson)
VALUES (?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		processorsJSON, _ := json.Marshal(nonNil(r.Processors))
		chipsetsJSON, _ := json.Marshal(nonNil(r.Chipsets))
		if _, err := stmt.Exec(runID, r.SourceFile, r.RowNo, r.RawCell, string(processorsJSON), string(chipsetsJSON)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, mode, input, output, timingsJson, countsJson, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRecord
	for rows.Next() {
		var run internal.RunRecord
		var timingsJSON, countsJSON string
		if err := rows.Scan(&run.ID, &run.TraceID, &run.Mode, &run.Input, &run.Output, &timingsJSON, &countsJSON, &run.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(timingsJSON), &run.Timings)
		_ = json.Unmarshal([]byte(countsJSON), &run.Counts)
		out = append(out, run)
	}
	return out, rows.Err()
}

func (d *DB) GetRowResults(runID int64) ([]internal.RowResultRecord, error) {
	rows, err := d.conn.Query(`
SELECT runId, sourceFile, rowNo, rawCell, processorsJson, chipsetsJson
FROM row_results WHERE runId = ?
ORDER BY id ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RowResultRecord
	for rows.Next() {
		var r internal.RowResultRecord
		var processorsJSON, chipsetsJSON string
		if err := rows.Scan(&r.RunID, &r.SourceFile, &r.RowNo, &r.RawCell, &processorsJSON, &chipsetsJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(processorsJSON), &r.Processors)
		_ = json.Unmarshal([]byte(chipsetsJSON), &r.Chipsets)
		out = append(out, r)
	}
	return out, rows.Err()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
