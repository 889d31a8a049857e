package model

import (
	"encoding/json"
	"math"
	"time"
)

// Surface is the court type a match was played on.
type Surface string

const (
	SurfaceHard   Surface = "Hard"
	SurfaceClay   Surface = "Clay"
	SurfaceGrass  Surface = "Grass"
	SurfaceCarpet Surface = "Carpet"
)

func (s Surface) String() string { return string(s) }

// Round is the tournament stage of a match, e.g. "1st Round", "QF", "The Final".
type Round string

func (r Round) String() string { return string(r) }

// Result is a match outcome relative to one player.
type Result int

const (
	ResultLoss Result = iota
	ResultWin
)

func (r Result) String() string {
	if r == ResultWin {
		return "Win"
	}
	return "Loss"
}

// MarshalText renders the result as "Win" or "Loss" in JSON and YAML output.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ---- Loaded rows ----

// MatchRecord is one played match. Records are never modified after load.
type MatchRecord struct {
	Date       time.Time `json:"date" yaml:"date"`
	Tournament string    `json:"tournament" yaml:"tournament"`
	Surface    Surface   `json:"surface" yaml:"surface"`
	Round      Round     `json:"round" yaml:"round"`
	Player1    string    `json:"player_1" yaml:"player_1"`
	Player2    string    `json:"player_2" yaml:"player_2"`
	Winner     string    `json:"winner" yaml:"winner"`
	Score      string    `json:"score" yaml:"score"`
	SetsPlayed int       `json:"sets_played" yaml:"sets_played"`
	Upset      bool      `json:"upset" yaml:"upset"`
	OddsGap    float64   `json:"-" yaml:"odds_gap"` // NaN when the source cell was empty
	Year       int       `json:"year" yaml:"year"`
}

// MarshalJSON writes the odds gap as null when it is missing, since JSON has no NaN.
func (m MatchRecord) MarshalJSON() ([]byte, error) {
	type plain MatchRecord
	var gap *float64
	if m.HasOddsGap() {
		g := m.OddsGap
		gap = &g
	}
	return json.Marshal(struct {
		plain
		OddsGap *float64 `json:"odds_gap"`
	}{plain(m), gap})
}

// Involves reports whether player is one of the two contestants.
func (m MatchRecord) Involves(player string) bool {
	return m.Player1 == player || m.Player2 == player
}

// Opponent returns the other contestant, or "" if player did not play.
func (m MatchRecord) Opponent(player string) string {
	switch player {
	case m.Player1:
		return m.Player2
	case m.Player2:
		return m.Player1
	default:
		return ""
	}
}

// ResultFor returns the outcome of the match from player's point of view.
func (m MatchRecord) ResultFor(player string) Result {
	if m.Winner == player {
		return ResultWin
	}
	return ResultLoss
}

// HasOddsGap reports whether the odds gap was present in the source.
func (m MatchRecord) HasOddsGap() bool {
	return !math.IsNaN(m.OddsGap)
}

// ---- Filter ----

// AllYears is the Filter.Year value that disables the year restriction.
const AllYears = 0

// Filter is the per-refresh selection applied to the full record set.
// An empty Surfaces slice places no restriction on surface.
type Filter struct {
	Year     int
	Surfaces []Surface
}

// SpansAllYears reports whether the year restriction is off.
func (f Filter) SpansAllYears() bool { return f.Year == AllYears }

// ---- Aggregated results ----

// WinnerCount is one row of a top-winners ranking.
type WinnerCount struct {
	Player string `json:"player" yaml:"player"`
	Wins   int    `json:"wins" yaml:"wins"`
}

// RoundCount is the number of matches played at one round.
type RoundCount struct {
	Round   Round `json:"round" yaml:"round"`
	Matches int   `json:"matches" yaml:"matches"`
}

// SurfaceCount is the number of matches played on one surface.
type SurfaceCount struct {
	Surface Surface `json:"surface" yaml:"surface"`
	Matches int     `json:"matches" yaml:"matches"`
}

// YearRate is a per-year rate, e.g. the yearly upset rate.
type YearRate struct {
	Year int     `json:"year" yaml:"year"`
	Rate float64 `json:"rate" yaml:"rate"`
}

// YearCount is a per-year count, e.g. wins in a season.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// Overview holds the headline KPIs of a filtered view.
type Overview struct {
	TotalMatches  int
	UniqueWinners int
	AvgSets       float64
	UpsetRate     float64
	HasMatches    bool // false when the view is empty; AvgSets and UpsetRate are then undefined
}

// UpsetSummary holds the upset/odds KPIs of a filtered view.
type UpsetSummary struct {
	TotalUpsets int
	AvgOddsGap  float64
	OddsSamples int // records with a non-empty odds gap; AvgOddsGap is undefined when 0
}

// SurfaceWins is the per-surface win split of a head-to-head.
type SurfaceWins struct {
	Surface Surface `json:"surface" yaml:"surface"`
	WinsA   int     `json:"wins_a" yaml:"wins_a"`
	WinsB   int     `json:"wins_b" yaml:"wins_b"`
}

// HeadToHead is the record between two players. A pair that never met yields
// a zero-valued result with an empty Matches slice.
type HeadToHead struct {
	PlayerA      string        `json:"player_a" yaml:"player_a"`
	PlayerB      string        `json:"player_b" yaml:"player_b"`
	TotalMatches int           `json:"total_matches" yaml:"total_matches"`
	WinsA        int           `json:"wins_a" yaml:"wins_a"`
	WinsB        int           `json:"wins_b" yaml:"wins_b"`
	BySurface    []SurfaceWins `json:"by_surface" yaml:"by_surface"`
	Matches      []MatchRecord `json:"matches" yaml:"matches"` // ascending by date
}

// Empty reports whether the two players never met.
func (h *HeadToHead) Empty() bool { return h.TotalMatches == 0 }

// SurfaceWinsFor returns the split for one surface, and false if the pair never played on it.
func (h *HeadToHead) SurfaceWinsFor(s Surface) (SurfaceWins, bool) {
	for _, sw := range h.BySurface {
		if sw.Surface == s {
			return sw, true
		}
	}
	return SurfaceWins{Surface: s}, false
}

// RecentMatch is one row of a player's recent-match history.
type RecentMatch struct {
	Match    MatchRecord `json:"match" yaml:"match"`
	Opponent string      `json:"opponent" yaml:"opponent"`
	Result   Result      `json:"result" yaml:"result"`
}

// PlayerProfile summarises a player's career across the whole dataset.
type PlayerProfile struct {
	Player          string         `json:"player" yaml:"player"`
	TotalMatches    int            `json:"total_matches" yaml:"total_matches"`
	Wins            int            `json:"wins" yaml:"wins"`
	FavoriteSurface Surface        `json:"favorite_surface" yaml:"favorite_surface"` // "" when the player has no wins
	WinsBySurface   []SurfaceCount `json:"wins_by_surface" yaml:"wins_by_surface"`
	WinsByYear      []YearCount    `json:"wins_by_year" yaml:"wins_by_year"`
	Recent          []RecentMatch  `json:"recent" yaml:"recent"` // newest first
}

// Losses is TotalMatches - Wins.
func (p *PlayerProfile) Losses() int { return p.TotalMatches - p.Wins }

// WinRate is Wins / TotalMatches; ok is false when the player has no matches.
func (p *PlayerProfile) WinRate() (rate float64, ok bool) {
	if p.TotalMatches == 0 {
		return 0, false
	}
	return float64(p.Wins) / float64(p.TotalMatches), true
}

// ---- Stored snapshots ----

// DatasetSummary is a lightweight record for the datasets/summary commands.
type DatasetSummary struct {
	Hash       string
	Source     string
	ImportedAt string
	RowCount   int
}

// DatabaseOverview holds whole-database counts for the summary command.
type DatabaseOverview struct {
	Datasets      int
	TotalMatches  int
	UniquePlayers int
	EarliestMatch string // YYYY-MM-DD, "" when no matches are stored
	LatestMatch   string
}

// PlayerActivity is one row of the most-active-players ranking.
type PlayerActivity struct {
	Name    string
	Matches int
	Wins    int
}

// WinRate is Wins / Matches; ok is false when the player has no matches.
func (a PlayerActivity) WinRate() (rate float64, ok bool) {
	if a.Matches == 0 {
		return 0, false
	}
	return float64(a.Wins) / float64(a.Matches), true
}
