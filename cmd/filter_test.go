package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/pable/go-wta-metrics/internal/dataset"
	"github.com/pable/go-wta-metrics/internal/model"
)

func testDataset() *dataset.Dataset {
	d := time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)
	return dataset.FromRecords("test.csv", "abc", []model.MatchRecord{
		{Date: d, Surface: model.SurfaceClay, Player1: "Serena Williams", Player2: "Venus Williams", Winner: "Venus Williams", SetsPlayed: 2, Year: 2021},
		{Date: d, Surface: model.SurfaceHard, Player1: "Naomi Osaka", Player2: "Venus Williams", Winner: "Naomi Osaka", SetsPlayed: 2, Year: 2021},
	})
}

func TestBuildFilterResolvesSurfaces(t *testing.T) {
	f, err := buildFilter(testDataset(), 2021, []string{"clay", " HARD "})
	if err != nil {
		t.Fatalf("buildFilter: %v", err)
	}
	if f.Year != 2021 || len(f.Surfaces) != 2 || f.Surfaces[0] != model.SurfaceClay || f.Surfaces[1] != model.SurfaceHard {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestBuildFilterUnknownSurface(t *testing.T) {
	_, err := buildFilter(testDataset(), model.AllYears, []string{"Ice"})
	if err == nil || !strings.Contains(err.Error(), "Clay, Hard") {
		t.Errorf("expected error listing surfaces, got %v", err)
	}
}

func TestBuildFilterEmptySelection(t *testing.T) {
	f, err := buildFilter(testDataset(), model.AllYears, nil)
	if err != nil || len(f.Surfaces) != 0 || !f.SpansAllYears() {
		t.Errorf("empty selection: %+v, %v", f, err)
	}
	if _, err := buildFilter(testDataset(), -1, nil); err == nil {
		t.Error("negative year should be rejected")
	}
}

func TestRequirePlayer(t *testing.T) {
	d := testDataset()
	if err := requirePlayer(d, "Naomi Osaka"); err != nil {
		t.Errorf("known player: %v", err)
	}
	err := requirePlayer(d, "Williams")
	if err == nil || !strings.Contains(err.Error(), "did you mean") {
		t.Errorf("expected suggestion, got %v", err)
	}
	if err := requirePlayer(d, "Steffi Graf"); err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("unknown player without matches: %v", err)
	}
}
