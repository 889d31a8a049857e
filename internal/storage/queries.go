package storage

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/pable/go-wta-metrics/internal/model"
)

// matchTimeLayout keeps the time of day so same-day matches reload in order.
const matchTimeLayout = "2006-01-02 15:04:05"

// DatasetExists returns true if a dataset with the given hash is already stored.
func (db *DB) DatasetExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM datasets WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertDataset inserts a dataset record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertDataset(s model.DatasetSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO datasets(hash, source, imported_at, row_count)
		VALUES (?, ?, ?, ?)`,
		s.Hash, s.Source, s.ImportedAt, s.RowCount,
	)
	return err
}

// InsertMatches bulk-inserts the rows of one dataset in a transaction. Row
// numbers follow slice order so LoadMatches returns rows as they were read.
func (db *DB) InsertMatches(hash string, records []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(
			dataset_hash, row_num, match_date, tournament, surface, round,
			player_1, player_2, winner, score, sets_played, upset, odds_gap, year
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		var gap sql.NullFloat64
		if r.HasOddsGap() {
			gap = sql.NullFloat64{Float64: r.OddsGap, Valid: true}
		}
		_, err = stmt.Exec(
			hash, i, r.Date.Format(matchTimeLayout), r.Tournament, string(r.Surface), string(r.Round),
			r.Player1, r.Player2, r.Winner, r.Score, r.SetsPlayed, boolInt(r.Upset), gap, r.Year,
		)
		if err != nil {
			return fmt.Errorf("insert match row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListDatasets returns all stored datasets, most recently imported first.
func (db *DB) ListDatasets() ([]model.DatasetSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, source, imported_at, row_count
		FROM datasets ORDER BY imported_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DatasetSummary
	for rows.Next() {
		var s model.DatasetSummary
		if err := rows.Scan(&s.Hash, &s.Source, &s.ImportedAt, &s.RowCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetDatasetByPrefix finds the first dataset whose hash starts with the given prefix.
// It returns nil, nil when nothing matches.
func (db *DB) GetDatasetByPrefix(prefix string) (*model.DatasetSummary, error) {
	var s model.DatasetSummary
	err := db.conn.QueryRow(`
		SELECT hash, source, imported_at, row_count
		FROM datasets WHERE hash LIKE ? ORDER BY imported_at DESC LIMIT 1`, prefix+"%").
		Scan(&s.Hash, &s.Source, &s.ImportedAt, &s.RowCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadMatches returns every stored row of a dataset in import order.
func (db *DB) LoadMatches(hash string) ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT match_date, tournament, surface, round, player_1, player_2,
		       winner, score, sets_played, upset, odds_gap, year
		FROM matches WHERE dataset_hash = ?
		ORDER BY row_num`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var r model.MatchRecord
		var dateStr, surface, round string
		var upsetInt int
		var gap sql.NullFloat64
		if err := rows.Scan(
			&dateStr, &r.Tournament, &surface, &round, &r.Player1, &r.Player2,
			&r.Winner, &r.Score, &r.SetsPlayed, &upsetInt, &gap, &r.Year,
		); err != nil {
			return nil, err
		}
		r.Date, err = time.Parse(matchTimeLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored match date %q: %w", dateStr, err)
		}
		r.Surface = model.Surface(surface)
		r.Round = model.Round(round)
		r.Upset = upsetInt != 0
		r.OddsGap = math.NaN()
		if gap.Valid {
			r.OddsGap = gap.Float64
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteDataset removes a dataset and its rows. Deleting an unknown hash is a no-op.
func (db *DB) DeleteDataset(hash string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM matches WHERE dataset_hash = ?", hash); err != nil {
		return fmt.Errorf("delete matches: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM datasets WHERE hash = ?", hash); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return tx.Commit()
}

// GetOverview returns whole-database counts across every stored dataset.
func (db *DB) GetOverview() (model.DatabaseOverview, error) {
	var ov model.DatabaseOverview
	var earliest, latest sql.NullString
	err := db.conn.QueryRow(`
		SELECT (SELECT COUNT(1) FROM datasets),
		       COUNT(1), substr(MIN(match_date), 1, 10), substr(MAX(match_date), 1, 10)
		FROM matches`).Scan(&ov.Datasets, &ov.TotalMatches, &earliest, &latest)
	if err != nil {
		return ov, err
	}
	ov.EarliestMatch = earliest.String
	ov.LatestMatch = latest.String

	err = db.conn.QueryRow(`
		SELECT COUNT(1) FROM (
			SELECT player_1 AS p FROM matches
			UNION
			SELECT player_2 FROM matches
		)`).Scan(&ov.UniquePlayers)
	return ov, err
}

// GetMostActivePlayers ranks players of one dataset by matches played, then
// wins, then name.
func (db *DB) GetMostActivePlayers(hash string, limit int) ([]model.PlayerActivity, error) {
	rows, err := db.conn.Query(`
		SELECT p, COUNT(1) AS matches, SUM(won) AS wins FROM (
			SELECT player_1 AS p, winner = player_1 AS won FROM matches WHERE dataset_hash = ?
			UNION ALL
			SELECT player_2, winner = player_2 FROM matches WHERE dataset_hash = ?
		)
		GROUP BY p
		ORDER BY matches DESC, wins DESC, p
		LIMIT ?`, hash, hash, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerActivity
	for rows.Next() {
		var a model.PlayerActivity
		if err := rows.Scan(&a.Name, &a.Matches, &a.Wins); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and rows as text.
// SQL NULL comes back as an invalid NullString.
func (db *DB) QueryRaw(query string) ([]string, [][]sql.NullString, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]sql.NullString
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]sql.NullString, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
			case []byte:
				row[i] = sql.NullString{String: string(x), Valid: true}
			default:
				row[i] = sql.NullString{String: fmt.Sprint(x), Valid: true}
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
