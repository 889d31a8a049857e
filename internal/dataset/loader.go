// Package dataset loads the match CSV into an immutable in-memory snapshot.
package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-wta-metrics/internal/model"
)

// Dataset is a loaded, validated set of matches. Nothing in it is modified
// after construction; filters and aggregations build new values.
type Dataset struct {
	Source   string
	Hash     string // hex SHA-256 of the source bytes
	Records  []model.MatchRecord
	Players  []string // sorted, de-duplicated union of player_1 and player_2
	Years    []int    // ascending
	Surfaces []model.Surface
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// Load reads and validates the CSV at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataError{Source: path, Err: err}
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads and validates CSV from r. source is used in errors and as Dataset.Source.
// Any bad row fails the whole load.
func Parse(r io.Reader, source string) (*Dataset, error) {
	h := sha256.New()
	cr := csv.NewReader(io.TeeReader(r, h))
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataError{Source: source, Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &DataError{Source: source, Line: 1, Err: err}
	}
	ix, err := resolveHeader(header)
	if err != nil {
		return nil, err
	}

	var records []model.MatchRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			return nil, &DataError{Source: source, Line: line, Err: err}
		}
		line, _ := cr.FieldPos(0)
		rec, err := parseRow(row, &ix)
		if err != nil {
			return nil, &DataError{Source: source, Line: line, Err: err}
		}
		records = append(records, rec)
	}

	return FromRecords(source, hex.EncodeToString(h.Sum(nil)), records), nil
}

// FromRecords builds a Dataset from rows that were already validated, e.g.
// rows read back from a stored snapshot.
func FromRecords(source, hash string, records []model.MatchRecord) *Dataset {
	players := make(map[string]struct{})
	years := make(map[int]struct{})
	surfaces := make(map[model.Surface]struct{})
	for _, r := range records {
		players[r.Player1] = struct{}{}
		players[r.Player2] = struct{}{}
		years[r.Year] = struct{}{}
		surfaces[r.Surface] = struct{}{}
	}

	d := &Dataset{
		Source:   source,
		Hash:     hash,
		Records:  records,
		Players:  make([]string, 0, len(players)),
		Years:    make([]int, 0, len(years)),
		Surfaces: make([]model.Surface, 0, len(surfaces)),
	}
	for p := range players {
		d.Players = append(d.Players, p)
	}
	for y := range years {
		d.Years = append(d.Years, y)
	}
	for s := range surfaces {
		d.Surfaces = append(d.Surfaces, s)
	}
	sort.Strings(d.Players)
	sort.Ints(d.Years)
	sort.Slice(d.Surfaces, func(i, j int) bool { return d.Surfaces[i] < d.Surfaces[j] })
	return d
}

// HasPlayer reports whether name appears as player_1 or player_2 anywhere.
func (d *Dataset) HasPlayer(name string) bool {
	i := sort.SearchStrings(d.Players, name)
	return i < len(d.Players) && d.Players[i] == name
}

// SearchPlayers returns players whose name contains substr, case-insensitively,
// in sorted order. An empty substr returns every player.
func (d *Dataset) SearchPlayers(substr string) []string {
	needle := strings.ToLower(strings.TrimSpace(substr))
	if needle == "" {
		return d.Players
	}
	var out []string
	for _, p := range d.Players {
		if strings.Contains(strings.ToLower(p), needle) {
			out = append(out, p)
		}
	}
	return out
}

func parseRow(row []string, ix *columnIndex) (model.MatchRecord, error) {
	cell := func(c column) string {
		if !ix.has(c) || ix[c] >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[ix[c]])
	}

	var m model.MatchRecord
	var err error

	if m.Date, err = parseDate(cell(colDate)); err != nil {
		return m, err
	}
	m.Tournament = cell(colTournament)
	m.Surface = model.Surface(cell(colSurface))
	if m.Surface == "" {
		return m, errors.New("empty surface")
	}
	m.Round = model.Round(cell(colRound))
	m.Player1 = cell(colPlayer1)
	m.Player2 = cell(colPlayer2)
	m.Winner = cell(colWinner)
	m.Score = cell(colScore)

	if m.Player1 == "" || m.Player2 == "" {
		return m, errors.New("missing player name")
	}
	if m.Player1 == m.Player2 {
		return m, fmt.Errorf("player_1 and player_2 are both %q", m.Player1)
	}
	if m.Winner != m.Player1 && m.Winner != m.Player2 {
		return m, fmt.Errorf("winner %q is neither %q nor %q", m.Winner, m.Player1, m.Player2)
	}

	if m.SetsPlayed, err = parseWholeNumber(cell(colSetsPlayed)); err != nil {
		return m, fmt.Errorf("sets_played: %w", err)
	}
	if m.SetsPlayed < 1 {
		return m, fmt.Errorf("sets_played must be at least 1, got %d", m.SetsPlayed)
	}
	if m.Upset, err = parseUpset(cell(colUpset)); err != nil {
		return m, fmt.Errorf("upset: %w", err)
	}
	if m.OddsGap, err = parseOptionalFloat(cell(colOddsGap)); err != nil {
		return m, fmt.Errorf("odds_gap: %w", err)
	}

	m.Year = m.Date.Year()
	if y := cell(colYear); y != "" {
		if m.Year, err = parseWholeNumber(y); err != nil {
			return m, fmt.Errorf("year: %w", err)
		}
	}
	return m, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// parseWholeNumber accepts "3" and the float-formatted "3.0" that
// spreadsheet exports produce. Values outside the int32 range are rejected.
func parseWholeNumber(s string) (int, error) {
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return int(f), nil
}

func parseUpset(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "1.0", "true":
		return true, nil
	case "0", "0.0", "false":
		return false, nil
	}
	return false, fmt.Errorf("want 0 or 1, got %q", s)
}

func parseOptionalFloat(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "", "nan", "na", "null":
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}
