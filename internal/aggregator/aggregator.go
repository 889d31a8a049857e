// Package aggregator computes descriptive statistics over match records.
// Every function is a pure transform: inputs are never modified and the same
// inputs always give the same output.
package aggregator

import (
	"errors"
	"sort"

	"github.com/pable/go-wta-metrics/internal/model"
)

var (
	// ErrIdenticalPlayers is returned when a head-to-head pairs a player with themself.
	ErrIdenticalPlayers = errors.New("head-to-head needs two different players")

	// ErrNoPlayers is returned when a head-to-head is requested without both players.
	ErrNoPlayers = errors.New("select two players")
)

// DefaultRecent is the number of matches in a profile's recent history.
const DefaultRecent = 20

// ValidatePair checks a head-to-head selection before any aggregation runs.
func ValidatePair(a, b string) error {
	if a == "" || b == "" {
		return ErrNoPlayers
	}
	if a == b {
		return ErrIdenticalPlayers
	}
	return nil
}

// FilterByYearAndSurface returns the records played in f.Year (every year
// when f.Year is model.AllYears) on one of f.Surfaces. An empty surface list
// does not restrict surface. The result is a new slice in input order.
func FilterByYearAndSurface(records []model.MatchRecord, f model.Filter) []model.MatchRecord {
	allowed := surfaceSet(f.Surfaces)
	out := make([]model.MatchRecord, 0, len(records))
	for _, r := range records {
		if !f.SpansAllYears() && r.Year != f.Year {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[r.Surface]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// surfaceSet returns nil for an empty selection, meaning "any surface".
func surfaceSet(surfaces []model.Surface) map[model.Surface]struct{} {
	if len(surfaces) == 0 {
		return nil
	}
	m := make(map[model.Surface]struct{}, len(surfaces))
	for _, s := range surfaces {
		m[s] = struct{}{}
	}
	return m
}

// counter tallies keys while remembering the order each key was first seen,
// so equal counts keep a stable, input-defined order.
type counter[K comparable] struct {
	counts map[K]int
	order  []K
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) add(k K) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

// sorted returns keys by count descending, ties in first-seen order.
func (c *counter[K]) sorted() []K {
	keys := make([]K, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	return keys
}

// TopWinners ranks players by wins in view, most wins first. Ties keep the
// order in which each player first appears as a winner. At most n entries are
// returned; n <= 0 returns none.
func TopWinners(view []model.MatchRecord, n int) []model.WinnerCount {
	if n <= 0 {
		return nil
	}
	c := newCounter[string]()
	for _, r := range view {
		c.add(r.Winner)
	}
	keys := c.sorted()
	if len(keys) > n {
		keys = keys[:n]
	}
	out := make([]model.WinnerCount, len(keys))
	for i, p := range keys {
		out[i] = model.WinnerCount{Player: p, Wins: c.counts[p]}
	}
	return out
}

// RoundDistribution counts matches per round, most frequent first.
func RoundDistribution(view []model.MatchRecord) []model.RoundCount {
	c := newCounter[model.Round]()
	for _, r := range view {
		c.add(r.Round)
	}
	out := make([]model.RoundCount, 0, len(c.order))
	for _, k := range c.sorted() {
		out = append(out, model.RoundCount{Round: k, Matches: c.counts[k]})
	}
	return out
}

// SurfaceCounts counts matches per surface, most frequent first.
func SurfaceCounts(view []model.MatchRecord) []model.SurfaceCount {
	c := newCounter[model.Surface]()
	for _, r := range view {
		c.add(r.Surface)
	}
	out := make([]model.SurfaceCount, 0, len(c.order))
	for _, k := range c.sorted() {
		out = append(out, model.SurfaceCount{Surface: k, Matches: c.counts[k]})
	}
	return out
}

// UpsetRate is the fraction of matches in view flagged as upsets. ok is false
// for an empty view, where the rate is undefined.
func UpsetRate(view []model.MatchRecord) (rate float64, ok bool) {
	if len(view) == 0 {
		return 0, false
	}
	upsets := 0
	for _, r := range view {
		if r.Upset {
			upsets++
		}
	}
	return float64(upsets) / float64(len(view)), true
}

// YearlyUpsetTrend groups the surface-filtered but year-unfiltered records by
// year and returns each year's upset rate, ascending by year. Years with no
// matches on the selected surfaces are absent.
func YearlyUpsetTrend(records []model.MatchRecord, surfaces []model.Surface) []model.YearRate {
	view := FilterByYearAndSurface(records, model.Filter{Year: model.AllYears, Surfaces: surfaces})
	type tally struct{ matches, upsets int }
	byYear := make(map[int]*tally)
	for _, r := range view {
		t := byYear[r.Year]
		if t == nil {
			t = &tally{}
			byYear[r.Year] = t
		}
		t.matches++
		if r.Upset {
			t.upsets++
		}
	}

	out := make([]model.YearRate, 0, len(byYear))
	for y, t := range byYear {
		out = append(out, model.YearRate{Year: y, Rate: float64(t.upsets) / float64(t.matches)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Summarize computes the overview KPIs for a filtered view.
func Summarize(view []model.MatchRecord) model.Overview {
	ov := model.Overview{TotalMatches: len(view)}
	if len(view) == 0 {
		return ov
	}
	winners := make(map[string]struct{})
	sets := 0
	for _, r := range view {
		winners[r.Winner] = struct{}{}
		sets += r.SetsPlayed
	}
	ov.HasMatches = true
	ov.UniqueWinners = len(winners)
	ov.AvgSets = float64(sets) / float64(len(view))
	ov.UpsetRate, _ = UpsetRate(view)
	return ov
}

// Upsets counts upsets in view and averages the odds gap over the records
// that carry one.
func Upsets(view []model.MatchRecord) model.UpsetSummary {
	var s model.UpsetSummary
	var gapSum float64
	for _, r := range view {
		if r.Upset {
			s.TotalUpsets++
		}
		if r.HasOddsGap() {
			gapSum += r.OddsGap
			s.OddsSamples++
		}
	}
	if s.OddsSamples > 0 {
		s.AvgOddsGap = gapSum / float64(s.OddsSamples)
	}
	return s
}
