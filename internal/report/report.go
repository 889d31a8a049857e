// Package report renders aggregated match statistics as terminal tables,
// JSON or YAML.
package report

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/pable/go-wta-metrics/internal/model"
)

const (
	dateLayout = "2006-01-02"
	undefined  = "—"
)

// NewTable returns a table with right-aligned rows and centred headers.
func NewTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func count(n int) string { return humanize.Comma(int64(n)) }

func pct(frac float64) string { return fmt.Sprintf("%.1f%%", frac*100) }

// FilterLabel describes a selection, e.g. "2021 · Hard, Clay" or "All years · All surfaces".
func FilterLabel(f model.Filter) string {
	year := "All years"
	if !f.SpansAllYears() {
		year = strconv.Itoa(f.Year)
	}
	surfaces := "All surfaces"
	if len(f.Surfaces) > 0 {
		names := make([]string, len(f.Surfaces))
		for i, s := range f.Surfaces {
			names[i] = string(s)
		}
		surfaces = strings.Join(names, ", ")
	}
	return year + " · " + surfaces
}

// PrintOverview prints the headline KPIs of a filtered view.
func PrintOverview(w io.Writer, f model.Filter, ov model.Overview) {
	fmt.Fprintf(w, "\n=== Overview (%s) ===\n\n", FilterLabel(f))
	avgSets, upsetRate := undefined, undefined
	if ov.HasMatches {
		avgSets = fmt.Sprintf("%.2f", ov.AvgSets)
		upsetRate = pct(ov.UpsetRate)
	}
	fmt.Fprintf(w, "  Total matches  : %s\n", count(ov.TotalMatches))
	fmt.Fprintf(w, "  Unique winners : %s\n", count(ov.UniqueWinners))
	fmt.Fprintf(w, "  Avg sets       : %s\n", avgSets)
	fmt.Fprintf(w, "  Upset rate     : %s\n\n", upsetRate)
}

// PrintTopWinners prints a ranked list of players by wins.
func PrintTopWinners(w io.Writer, winners []model.WinnerCount) {
	if len(winners) == 0 {
		fmt.Fprintln(w, "No winners for the current selection.")
		return
	}
	table := NewTable(w)
	table.Header("#", "PLAYER", "WINS")
	for i, wc := range winners {
		table.Append(strconv.Itoa(i+1), wc.Player, count(wc.Wins))
	}
	table.Render()
}

// PrintRoundDistribution prints matches per round with each round's share of total.
func PrintRoundDistribution(w io.Writer, rounds []model.RoundCount, total int) {
	if len(rounds) == 0 {
		fmt.Fprintln(w, "No rounds for the current selection.")
		return
	}
	table := NewTable(w)
	table.Header("ROUND", "MATCHES", "SHARE")
	for _, rc := range rounds {
		table.Append(string(rc.Round), count(rc.Matches), share(rc.Matches, total))
	}
	table.Render()
}

// PrintSurfaceCounts prints matches per surface with each surface's share of total.
func PrintSurfaceCounts(w io.Writer, surfaces []model.SurfaceCount, total int) {
	if len(surfaces) == 0 {
		fmt.Fprintln(w, "No surfaces for the current selection.")
		return
	}
	table := NewTable(w)
	table.Header("SURFACE", "MATCHES", "SHARE")
	for _, sc := range surfaces {
		table.Append(string(sc.Surface), count(sc.Matches), share(sc.Matches, total))
	}
	table.Render()
}

func share(n, total int) string {
	if total <= 0 {
		return undefined
	}
	return pct(float64(n) / float64(total))
}

// PrintUpsetSummary prints upset KPIs for a view of total matches, including
// a 95% confidence interval for the rate and a sample-size flag.
func PrintUpsetSummary(w io.Writer, s model.UpsetSummary, total int) {
	rate, ci := undefined, undefined
	if total > 0 {
		rate = pct(float64(s.TotalUpsets) / float64(total))
		lo, hi := wilsonCI(s.TotalUpsets, total)
		ci = fmt.Sprintf("%.1f–%.1f%%", lo*100, hi*100)
	}
	gap := undefined
	if s.OddsSamples > 0 {
		gap = fmt.Sprintf("%.2f", s.AvgOddsGap)
	}
	fmt.Fprintf(w, "  Total upsets   : %s\n", count(s.TotalUpsets))
	fmt.Fprintf(w, "  Upset rate     : %s  (95%% CI %s, sample %s)\n", rate, ci, sampleFlag(total))
	fmt.Fprintf(w, "  Avg odds gap   : %s  (%s rows with odds)\n\n", gap, count(s.OddsSamples))
}

// PrintUpsetTrend prints the yearly upset rate, oldest year first.
func PrintUpsetTrend(w io.Writer, trend []model.YearRate) {
	if len(trend) == 0 {
		fmt.Fprintln(w, "No yearly data for the current surfaces.")
		return
	}
	table := NewTable(w)
	table.Header("YEAR", "UPSET RATE", "")
	for _, yr := range trend {
		table.Append(strconv.Itoa(yr.Year), pct(yr.Rate), bar(yr.Rate, 20))
	}
	table.Render()
}

// bar draws frac of width as a text bar.
func bar(frac float64, width int) string {
	n := int(math.Round(frac * float64(width)))
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n >= 20:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// PrintMatches prints the first limit rows of view followed by a
// "Showing N of M rows" footer. limit <= 0 prints every row.
func PrintMatches(w io.Writer, view []model.MatchRecord, limit int) {
	if len(view) == 0 {
		fmt.Fprintln(w, "No matches for the current selection.")
		return
	}
	shown := view
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	table := NewTable(w)
	table.Header("DATE", "TOURNAMENT", "SURFACE", "ROUND", "PLAYER 1", "PLAYER 2", "WINNER", "SCORE", "SETS", "UPSET", "ODDS GAP")
	for _, m := range shown {
		table.Append(
			m.Date.Format(dateLayout),
			m.Tournament,
			string(m.Surface),
			string(m.Round),
			m.Player1,
			m.Player2,
			m.Winner,
			m.Score,
			strconv.Itoa(m.SetsPlayed),
			yesNo(m.Upset),
			oddsGap(m),
		)
	}
	table.Render()
	fmt.Fprintf(w, "Showing %s of %s rows\n", count(len(shown)), count(len(view)))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func oddsGap(m model.MatchRecord) string {
	if !m.HasOddsGap() {
		return undefined
	}
	return fmt.Sprintf("%.2f", m.OddsGap)
}

// PrintHeadToHead prints the overall record, the per-surface split and the
// full match history of a pair.
func PrintHeadToHead(w io.Writer, h model.HeadToHead) {
	fmt.Fprintf(w, "\n=== %s vs %s ===\n\n", h.PlayerA, h.PlayerB)
	if h.Empty() {
		fmt.Fprintf(w, "%s and %s have never played each other.\n", h.PlayerA, h.PlayerB)
		return
	}
	fmt.Fprintf(w, "  Matches : %s\n", count(h.TotalMatches))
	fmt.Fprintf(w, "  Record  : %s %d – %d %s\n\n", h.PlayerA, h.WinsA, h.WinsB, h.PlayerB)

	st := NewTable(w)
	st.Header("SURFACE", strings.ToUpper(h.PlayerA), strings.ToUpper(h.PlayerB))
	for _, sw := range h.BySurface {
		st.Append(string(sw.Surface), strconv.Itoa(sw.WinsA), strconv.Itoa(sw.WinsB))
	}
	st.Render()

	fmt.Fprintf(w, "\n--- Match history ---\n\n")
	mt := NewTable(w)
	mt.Header("DATE", "TOURNAMENT", "SURFACE", "ROUND", "WINNER", "SCORE", "UPSET", "ODDS GAP")
	for _, m := range h.Matches {
		mt.Append(m.Date.Format(dateLayout), m.Tournament, string(m.Surface), string(m.Round), m.Winner, m.Score, yesNo(m.Upset), oddsGap(m))
	}
	mt.Render()
}

// PrintProfile prints a player's career KPIs, wins per surface and year, and
// recent matches.
func PrintProfile(w io.Writer, p model.PlayerProfile) {
	fmt.Fprintf(w, "\n=== %s ===\n\n", p.Player)
	if p.TotalMatches == 0 {
		fmt.Fprintf(w, "No matches found for %s.\n", p.Player)
		return
	}
	rate := undefined
	if r, ok := p.WinRate(); ok {
		rate = pct(r)
	}
	fav := undefined
	if p.FavoriteSurface != "" {
		fav = string(p.FavoriteSurface)
	}
	fmt.Fprintf(w, "  Matches          : %s\n", count(p.TotalMatches))
	fmt.Fprintf(w, "  Wins / Losses    : %s / %s\n", count(p.Wins), count(p.Losses()))
	fmt.Fprintf(w, "  Win rate         : %s\n", rate)
	fmt.Fprintf(w, "  Favorite surface : %s\n", fav)

	if len(p.WinsBySurface) > 0 {
		fmt.Fprintf(w, "\n--- Wins by surface ---\n\n")
		st := NewTable(w)
		st.Header("SURFACE", "WINS")
		for _, sc := range p.WinsBySurface {
			st.Append(string(sc.Surface), count(sc.Matches))
		}
		st.Render()
	}

	if len(p.WinsByYear) > 0 {
		fmt.Fprintf(w, "\n--- Wins by year ---\n\n")
		yt := NewTable(w)
		yt.Header("YEAR", "WINS")
		for _, yc := range p.WinsByYear {
			yt.Append(strconv.Itoa(yc.Year), count(yc.Count))
		}
		yt.Render()
	}

	fmt.Fprintf(w, "\n--- Recent matches ---\n\n")
	rt := NewTable(w)
	rt.Header("DATE", "TOURNAMENT", "SURFACE", "ROUND", "OPPONENT", "RESULT", "SCORE", "UPSET")
	for _, rm := range p.Recent {
		m := rm.Match
		rt.Append(m.Date.Format(dateLayout), m.Tournament, string(m.Surface), string(m.Round), rm.Opponent, rm.Result.String(), m.Score, yesNo(m.Upset))
	}
	rt.Render()
}

// PrintPlayers prints a sorted player list, one name per line.
func PrintPlayers(w io.Writer, players []string, total int) {
	if len(players) == 0 {
		fmt.Fprintln(w, "No players match.")
		return
	}
	for _, p := range players {
		fmt.Fprintln(w, p)
	}
	fmt.Fprintf(w, "\n%s of %s players\n", count(len(players)), count(total))
}

// PrintDatasets prints stored dataset snapshots.
func PrintDatasets(w io.Writer, datasets []model.DatasetSummary) {
	if len(datasets) == 0 {
		fmt.Fprintln(w, "No datasets stored yet. Run 'wtametrics import <matches.csv>' to add one.")
		return
	}
	table := NewTable(w)
	table.Header("HASH", "SOURCE", "IMPORTED", "ROWS")
	for _, d := range datasets {
		table.Append(shortHash(d.Hash), d.Source, d.ImportedAt, count(d.RowCount))
	}
	table.Render()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// PrintDatabaseSummary prints whole-database counts and the most active
// players of the newest dataset.
func PrintDatabaseSummary(w io.Writer, ov model.DatabaseOverview, newest model.DatasetSummary, players []model.PlayerActivity) {
	if ov.Datasets == 0 {
		fmt.Fprintln(w, "No datasets stored yet. Run 'wtametrics import <matches.csv>' to add one.")
		return
	}
	dateRange := undefined
	if ov.EarliestMatch != "" {
		dateRange = ov.EarliestMatch + " → " + ov.LatestMatch
	}
	fmt.Fprintf(w, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(w, "  Datasets stored : %s\n", count(ov.Datasets))
	fmt.Fprintf(w, "  Matches         : %s\n", count(ov.TotalMatches))
	fmt.Fprintf(w, "  Date range      : %s\n", dateRange)
	fmt.Fprintf(w, "  Players seen    : %s\n", count(ov.UniquePlayers))

	fmt.Fprintf(w, "\n--- Most Active Players (%s, %s) ---\n\n", shortHash(newest.Hash), newest.Source)
	if len(players) == 0 {
		fmt.Fprintln(w, "No matches in this dataset.")
		return
	}
	table := NewTable(w)
	table.Header("NAME", "MATCHES", "WINS", "WIN%")
	for _, p := range players {
		rate := undefined
		if r, ok := p.WinRate(); ok {
			rate = pct(r)
		}
		table.Append(p.Name, count(p.Matches), count(p.Wins), rate)
	}
	table.Render()
}

// PrintQueryResult prints the result of a raw SQL query. NULL cells render as "—".
func PrintQueryResult(w io.Writer, cols []string, rows [][]sql.NullString) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := NewTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = undefined
			if v.Valid {
				cells[i] = v.String
			}
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%s rows)\n", count(len(rows)))
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
