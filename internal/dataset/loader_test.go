package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pable/go-wta-metrics/internal/model"
)

const canonicalHeader = "Date,Tournament,Surface,Round,Player_1,Player_2,Winner,Score,sets_played,upset,odds_gap,year\n"

const sampleCSV = canonicalHeader +
	"2020-01-10,Brisbane,Hard,QF,Serena,Venus,Serena,6-4 6-3,2,0,1.25,2020\n" +
	"2021-05-20,Rome,Clay,SF,Serena,Venus,Venus,4-6 6-3 7-5,3,1,0.40,2021\n" +
	"2021-06-30,Wimbledon,Grass,R32,Ashleigh,Naomi,Ashleigh,6-2 6-2,2,0,,2021\n"

// writeCSV writes content to a temp file and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wta.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestLoadCanonicalSchema(t *testing.T) {
	d, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(d.Records))
	}

	r := d.Records[1]
	if r.Tournament != "Rome" || r.Surface != model.SurfaceClay || r.Round != "SF" {
		t.Errorf("row 2 mismatch: %+v", r)
	}
	if r.Winner != "Venus" || r.SetsPlayed != 3 || !r.Upset || r.OddsGap != 0.40 || r.Year != 2021 {
		t.Errorf("row 2 values mismatch: %+v", r)
	}
	if r.Date.Format("2006-01-02") != "2021-05-20" {
		t.Errorf("row 2 date: got %s", r.Date.Format("2006-01-02"))
	}

	wantPlayers := []string{"Ashleigh", "Naomi", "Serena", "Venus"}
	if strings.Join(d.Players, ",") != strings.Join(wantPlayers, ",") {
		t.Errorf("players: want %v, got %v", wantPlayers, d.Players)
	}
	if len(d.Years) != 2 || d.Years[0] != 2020 || d.Years[1] != 2021 {
		t.Errorf("years: got %v", d.Years)
	}
	if len(d.Surfaces) != 3 || d.Surfaces[0] != model.SurfaceClay {
		t.Errorf("surfaces should be sorted, got %v", d.Surfaces)
	}

	sum := sha256.Sum256([]byte(sampleCSV))
	if d.Hash != hex.EncodeToString(sum[:]) {
		t.Errorf("hash mismatch: got %s", d.Hash)
	}
}

func TestLoadEmptyOddsGapIsMissing(t *testing.T) {
	d, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Records[2].HasOddsGap() {
		t.Errorf("expected empty odds_gap to be missing, got %v", d.Records[2].OddsGap)
	}
	if !d.Records[0].HasOddsGap() {
		t.Error("expected row 1 to carry an odds gap")
	}
}

func TestLoadAliasedHeaders(t *testing.T) {
	content := "date,tournament,surface,round,player_1,player_2,winner,score,Avg_Sets,Upset_Rate,odds_gap,Year\n" +
		"2019-03-01,Doha,Hard,F,Simona,Petra,Petra,3-6 6-3 6-4,3.0,1.0,0.8,2019\n"
	d, err := Load(writeCSV(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := d.Records[0]
	if r.SetsPlayed != 3 || !r.Upset || r.Year != 2019 {
		t.Errorf("aliased columns not mapped: %+v", r)
	}
}

func TestLoadDerivesYearFromDate(t *testing.T) {
	content := "Date,Tournament,Surface,Round,Player_1,Player_2,Winner,Score,sets_played,upset,odds_gap\n" +
		"2018-09-08,US Open,Hard,The Final,Naomi,Serena,Naomi,6-2 6-4,2,1,0.5\n"
	d, err := Load(writeCSV(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Records[0].Year != 2018 {
		t.Errorf("year: want 2018, got %d", d.Records[0].Year)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	content := "Date,Tournament,Surface,Round,Player_1,Player_2,Score,sets_played,upset,odds_gap\n"
	_, err := Load(writeCSV(t, content))
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	var se *SchemaError
	if !errors.As(err, &se) || se.Column != "winner" {
		t.Errorf("expected missing column 'winner', got %v", err)
	}
	if errors.Is(err, ErrDataUnavailable) {
		t.Error("schema errors should not also be data-unavailable")
	}
}

func TestLoadAmbiguousColumn(t *testing.T) {
	content := "Date,Tournament,Surface,Round,Player_1,Player_2,Winner,Score,sets_played,upset,Upset_Rate,odds_gap\n"
	_, err := Load(writeCSV(t, content))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if se.Column != "upset" || len(se.Headers) != 2 {
		t.Errorf("unexpected schema error: %+v", se)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected the not-exist cause to be kept, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := Load(writeCSV(t, ""))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestLoadRejectsInvalidRows(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"winner not a contestant", "2020-01-10,X,Hard,QF,A,B,C,6-0 6-0,2,0,1.0,2020"},
		{"same player twice", "2020-01-10,X,Hard,QF,A,A,A,6-0 6-0,2,0,1.0,2020"},
		{"zero sets", "2020-01-10,X,Hard,QF,A,B,A,6-0 6-0,0,0,1.0,2020"},
		{"fractional sets", "2020-01-10,X,Hard,QF,A,B,A,6-0 6-0,2.5,0,1.0,2020"},
		{"upset out of range", "2020-01-10,X,Hard,QF,A,B,A,6-0 6-0,2,2,1.0,2020"},
		{"bad date", "10 Jan 2020,X,Hard,QF,A,B,A,6-0 6-0,2,0,1.0,2020"},
		{"bad odds gap", "2020-01-10,X,Hard,QF,A,B,A,6-0 6-0,2,0,wide,2020"},
		{"empty surface", "2020-01-10,X,,QF,A,B,A,6-0 6-0,2,0,1.0,2020"},
		{"missing player", "2020-01-10,X,Hard,QF,,B,B,6-0 6-0,2,0,1.0,2020"},
		{"year overflows", "2020-01-10,X,Hard,QF,A,B,A,6-0 6-0,2,0,1.0,1e19"},
		{"year too large", "2020-01-10,X,Hard,QF,A,B,A,6-0 6-0,2,0,1.0,99999999999"},
		{"sets overflow", "2020-01-10,X,Hard,QF,A,B,A,6-0 6-0,1e300,0,1.0,2020"},
		{"infinite sets", "2020-01-10,X,Hard,QF,A,B,A,6-0 6-0,Inf,0,1.0,2020"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeCSV(t, canonicalHeader+tc.row+"\n"))
			if !errors.Is(err, ErrDataUnavailable) {
				t.Fatalf("expected ErrDataUnavailable, got %v", err)
			}
			var de *DataError
			if !errors.As(err, &de) || de.Line != 2 {
				t.Errorf("expected error on line 2, got %v", err)
			}
		})
	}
}

func TestLoadRejectsRaggedRow(t *testing.T) {
	_, err := Load(writeCSV(t, canonicalHeader+"2020-01-10,X,Hard\n"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestSearchPlayers(t *testing.T) {
	d, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := d.SearchPlayers("EN")
	if len(got) != 2 || got[0] != "Serena" || got[1] != "Venus" {
		t.Errorf("SearchPlayers(EN): got %v", got)
	}
	if !d.HasPlayer("Naomi") || d.HasPlayer("Nao") {
		t.Error("HasPlayer should match whole names only")
	}
	if len(d.SearchPlayers("")) != len(d.Players) {
		t.Error("empty search should return every player")
	}
}

func TestCacheMemoizesByPath(t *testing.T) {
	path := writeCSV(t, sampleCSV)
	c := NewCache(quietLogger())
	calls := 0
	c.load = func(p string) (*Dataset, error) {
		calls++
		return Load(p)
	}

	first, err := c.Get(path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := c.Get(filepath.Join(filepath.Dir(path), ".", "wta.csv"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first != second {
		t.Error("expected the same snapshot for an equivalent path")
	}
	if calls != 1 {
		t.Errorf("expected 1 load, got %d", calls)
	}

	if _, err := c.Reload(path); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected Reload to load again, got %d loads", calls)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 cached dataset, got %d", c.Len())
	}
}

func TestCacheDoesNotKeepFailures(t *testing.T) {
	c := NewCache(quietLogger())
	path := filepath.Join(t.TempDir(), "later.csv")
	if _, err := c.Get(path); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := c.Get(path)
	if err != nil {
		t.Fatalf("Get after file appeared: %v", err)
	}
	if len(d.Records) != 3 {
		t.Errorf("expected 3 records, got %d", len(d.Records))
	}
}

func TestParseWholeNumber(t *testing.T) {
	for in, want := range map[string]int{"3": 3, "3.0": 3, "2021": 2021, "-4": -4} {
		got, err := parseWholeNumber(in)
		if err != nil || got != want {
			t.Errorf("%q: want %d, got %d (%v)", in, want, got, err)
		}
	}
	for _, in := range []string{"1e19", "-1e19", "2147483648", "NaN", "Inf", "2.5", ""} {
		if n, err := parseWholeNumber(in); err == nil {
			t.Errorf("%q: expected error, got %d", in, n)
		}
	}
}
