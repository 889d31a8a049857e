package report

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-wta-metrics/internal/model"
)

func rec(date, winner string, gap float64) model.MatchRecord {
	d, _ := time.Parse(dateLayout, date)
	return model.MatchRecord{
		Date: d, Tournament: "Open", Surface: model.SurfaceHard, Round: "QF",
		Player1: "Serena", Player2: "Venus", Winner: winner, Score: "6-4 6-4",
		SetsPlayed: 2, OddsGap: gap, Year: d.Year(),
	}
}

func upset(m model.MatchRecord) model.MatchRecord {
	m.Upset = true
	return m
}

func TestFilterLabel(t *testing.T) {
	if got := FilterLabel(model.Filter{}); got != "All years · All surfaces" {
		t.Errorf("got %q", got)
	}
	got := FilterLabel(model.Filter{Year: 2021, Surfaces: []model.Surface{model.SurfaceHard, model.SurfaceClay}})
	if got != "2021 · Hard, Clay" {
		t.Errorf("got %q", got)
	}
}

func TestPrintOverviewUndefinedOnEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintOverview(&buf, model.Filter{}, model.Overview{})
	out := buf.String()
	if !strings.Contains(out, "Avg sets       : —") || !strings.Contains(out, "Upset rate     : —") {
		t.Errorf("empty view should render undefined KPIs, got:\n%s", out)
	}

	buf.Reset()
	PrintOverview(&buf, model.Filter{}, model.Overview{TotalMatches: 12345, UniqueWinners: 7, AvgSets: 2.5, UpsetRate: 0.25, HasMatches: true})
	out = buf.String()
	for _, want := range []string{"12,345", "2.50", "25.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrintTopWinners(t *testing.T) {
	var buf bytes.Buffer
	PrintTopWinners(&buf, nil)
	if !strings.Contains(buf.String(), "No winners") {
		t.Errorf("expected no-data message, got %q", buf.String())
	}

	buf.Reset()
	PrintTopWinners(&buf, []model.WinnerCount{{Player: "Serena", Wins: 1200}, {Player: "Venus", Wins: 3}})
	out := buf.String()
	if !strings.Contains(out, "Serena") || !strings.Contains(out, "1,200") {
		t.Errorf("unexpected table:\n%s", out)
	}
	if strings.Index(out, "Serena") > strings.Index(out, "Venus") {
		t.Error("rows should keep ranking order")
	}
}

func TestPrintRoundDistributionShare(t *testing.T) {
	var buf bytes.Buffer
	PrintRoundDistribution(&buf, []model.RoundCount{{Round: "QF", Matches: 3}, {Round: "F", Matches: 1}}, 4)
	if !strings.Contains(buf.String(), "75.0%") || !strings.Contains(buf.String(), "25.0%") {
		t.Errorf("expected shares, got:\n%s", buf.String())
	}
	if share(1, 0) != undefined {
		t.Error("share of zero total should be undefined")
	}
}

func TestPrintUpsetSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintUpsetSummary(&buf, model.UpsetSummary{}, 0)
	if !strings.Contains(buf.String(), "Upset rate     : —") || !strings.Contains(buf.String(), "Avg odds gap   : —") {
		t.Errorf("empty view should render undefined values:\n%s", buf.String())
	}

	buf.Reset()
	PrintUpsetSummary(&buf, model.UpsetSummary{TotalUpsets: 10, AvgOddsGap: 1.5, OddsSamples: 80}, 100)
	out := buf.String()
	for _, want := range []string{"10.0%", "1.50", "OK"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWilsonCI(t *testing.T) {
	lo, hi := wilsonCI(0, 0)
	if lo != 0 || hi != 1 {
		t.Errorf("n=0: want [0,1], got [%v,%v]", lo, hi)
	}
	lo, hi = wilsonCI(50, 100)
	if lo >= 0.5 || hi <= 0.5 || lo < 0.39 || hi > 0.61 {
		t.Errorf("50/100: got [%v,%v]", lo, hi)
	}
	lo, hi = wilsonCI(10, 10)
	if hi < 0.999 || hi > 1 || lo <= 0.6 {
		t.Errorf("10/10: got [%v,%v]", lo, hi)
	}
}

func TestPrintUpsetTrend(t *testing.T) {
	var buf bytes.Buffer
	PrintUpsetTrend(&buf, []model.YearRate{{Year: 2019, Rate: 0}, {Year: 2020, Rate: 0.5}})
	out := buf.String()
	if !strings.Contains(out, "2019") || !strings.Contains(out, "50.0%") {
		t.Errorf("unexpected trend:\n%s", out)
	}
	if bar(0.5, 20) != strings.Repeat("█", 10) || bar(2, 4) != strings.Repeat("█", 4) {
		t.Error("bar should scale and clamp")
	}
}

func TestPrintMatchesFooter(t *testing.T) {
	view := []model.MatchRecord{
		rec("2020-01-01", "Serena", 1.25),
		rec("2020-02-01", "Venus", math.NaN()),
		rec("2020-03-01", "Serena", 0.5),
	}
	var buf bytes.Buffer
	PrintMatches(&buf, view, 2)
	out := buf.String()
	if !strings.Contains(out, "Showing 2 of 3 rows") {
		t.Errorf("missing footer:\n%s", out)
	}
	if strings.Contains(out, "2020-03-01") {
		t.Error("rows beyond the limit should not be printed")
	}
	if !strings.Contains(out, "1.25") || !strings.Contains(out, undefined) {
		t.Errorf("odds gap cells:\n%s", out)
	}

	buf.Reset()
	PrintMatches(&buf, view, 0)
	if !strings.Contains(buf.String(), "Showing 3 of 3 rows") {
		t.Errorf("limit 0 should print everything:\n%s", buf.String())
	}
}

func TestPrintHeadToHead(t *testing.T) {
	var buf bytes.Buffer
	PrintHeadToHead(&buf, model.HeadToHead{PlayerA: "Serena", PlayerB: "Steffi"})
	if !strings.Contains(buf.String(), "never played") {
		t.Errorf("expected never-met message:\n%s", buf.String())
	}

	buf.Reset()
	h := model.HeadToHead{
		PlayerA: "Serena", PlayerB: "Venus", TotalMatches: 2, WinsA: 1, WinsB: 1,
		BySurface: []model.SurfaceWins{{Surface: model.SurfaceHard, WinsA: 1, WinsB: 1}},
		Matches:   []model.MatchRecord{rec("2020-01-01", "Serena", 1), upset(rec("2021-01-01", "Venus", 1))},
	}
	PrintHeadToHead(&buf, h)
	out := buf.String()
	if !strings.Contains(out, "Serena 1 – 1 Venus") || !strings.Contains(out, "Match history") {
		t.Errorf("unexpected h2h output:\n%s", out)
	}
	for _, want := range []string{"UPSET", "ODDS GAP", "yes", "1.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("history should show %q:\n%s", want, out)
		}
	}
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	PrintProfile(&buf, model.PlayerProfile{Player: "Martina"})
	if !strings.Contains(buf.String(), "No matches found for Martina") {
		t.Errorf("expected no-data message:\n%s", buf.String())
	}

	buf.Reset()
	p := model.PlayerProfile{
		Player: "Serena", TotalMatches: 2, Wins: 1,
		WinsBySurface: []model.SurfaceCount{{Surface: model.SurfaceHard, Matches: 1}},
		WinsByYear:    []model.YearCount{{Year: 2020, Count: 1}},
		Recent: []model.RecentMatch{
			{Match: upset(rec("2021-01-01", "Venus", 1)), Opponent: "Venus", Result: model.ResultLoss},
		},
	}
	PrintProfile(&buf, p)
	out := buf.String()
	for _, want := range []string{"50.0%", "Favorite surface : —", "Loss", "UPSET", "yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrintDatasetsEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintDatasets(&buf, nil)
	if !strings.Contains(buf.String(), "No datasets stored yet") {
		t.Errorf("got %q", buf.String())
	}
	buf.Reset()
	PrintDatasets(&buf, []model.DatasetSummary{{Hash: "0123456789abcdef", Source: "wta.csv", RowCount: 2500}})
	if !strings.Contains(buf.String(), "0123456789ab") || strings.Contains(buf.String(), "0123456789abc") {
		t.Errorf("hash should be shortened to 12 chars:\n%s", buf.String())
	}
}

func TestWriteJSONNullOddsGap(t *testing.T) {
	var buf bytes.Buffer
	h := model.HeadToHead{
		PlayerA: "Serena", PlayerB: "Venus", TotalMatches: 1, WinsA: 1,
		BySurface: []model.SurfaceWins{},
		Matches:   []model.MatchRecord{rec("2020-01-01", "Serena", math.NaN())},
	}
	if err := WriteJSON(&buf, h); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded struct {
		WinsA   int `json:"wins_a"`
		Matches []map[string]any
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.WinsA != 1 || len(decoded.Matches) != 1 {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
	if v, ok := decoded.Matches[0]["odds_gap"]; !ok || v != nil {
		t.Errorf("missing odds gap should encode as null, got %v (present=%v)", v, ok)
	}
}

func TestWriteYAMLProfile(t *testing.T) {
	var buf bytes.Buffer
	p := model.PlayerProfile{
		Player: "Serena", TotalMatches: 1, Wins: 1, FavoriteSurface: model.SurfaceHard,
		Recent: []model.RecentMatch{{Match: rec("2020-01-01", "Serena", 1), Opponent: "Venus", Result: model.ResultWin}},
	}
	if err := WriteYAML(&buf, p); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}
	if decoded["favorite_surface"] != "Hard" {
		t.Errorf("favorite_surface: %v", decoded["favorite_surface"])
	}
	if !strings.Contains(buf.String(), "result: Win") {
		t.Errorf("result should render as text:\n%s", buf.String())
	}
}

func TestPrintQueryResult(t *testing.T) {
	var buf bytes.Buffer
	PrintQueryResult(&buf, []string{"winner"}, nil)
	if !strings.Contains(buf.String(), "(no rows)") {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	rows := [][]sql.NullString{
		{{String: "Venus", Valid: true}, {String: "1.8", Valid: true}},
		{{String: "Serena", Valid: true}, {}},
	}
	PrintQueryResult(&buf, []string{"winner", "odds_gap"}, rows)
	out := buf.String()
	if !strings.Contains(out, "1.8") || !strings.Contains(out, undefined) || strings.Contains(out, "NULL") {
		t.Errorf("NULL should render as %s:\n%s", undefined, out)
	}
	if !strings.Contains(out, "(2 rows)") {
		t.Errorf("missing row count:\n%s", out)
	}
}

func TestPrintDatabaseSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintDatabaseSummary(&buf, model.DatabaseOverview{}, model.DatasetSummary{}, nil)
	if !strings.Contains(buf.String(), "No datasets stored yet") {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	ov := model.DatabaseOverview{Datasets: 1, TotalMatches: 2500, UniquePlayers: 300, EarliestMatch: "2015-01-04", LatestMatch: "2024-11-10"}
	players := []model.PlayerActivity{{Name: "Iga", Matches: 80, Wins: 60}, {Name: "Coco", Matches: 0}}
	PrintDatabaseSummary(&buf, ov, model.DatasetSummary{Hash: "0123456789abcdef", Source: "wta.csv"}, players)
	out := buf.String()
	for _, want := range []string{"2,500", "2015-01-04 → 2024-11-10", "0123456789ab", "75.0%", undefined} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
