package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-wta-metrics/internal/dataset"
	"github.com/pable/go-wta-metrics/internal/model"
)

var (
	filterYear     int
	filterSurfaces []string
)

func addFilterFlags(c *cobra.Command) {
	c.Flags().IntVar(&filterYear, "year", model.AllYears, "restrict to one season (0 = all years)")
	c.Flags().StringSliceVar(&filterSurfaces, "surface", nil, "surfaces to include, repeatable or comma-separated (default all)")
}

// buildFilter resolves user-typed surfaces against those present in d,
// case-insensitively. An unknown surface is an error; a year with no matches
// is not, it just yields an empty view.
func buildFilter(d *dataset.Dataset, year int, surfaces []string) (model.Filter, error) {
	f := model.Filter{Year: year}
	if year < 0 {
		return f, fmt.Errorf("invalid year %d", year)
	}
	for _, raw := range surfaces {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		s, ok := matchSurface(d.Surfaces, name)
		if !ok {
			return f, fmt.Errorf("unknown surface %q (available: %s)", name, surfaceList(d.Surfaces))
		}
		f.Surfaces = append(f.Surfaces, s)
	}
	return f, nil
}

func matchSurface(known []model.Surface, name string) (model.Surface, bool) {
	for _, s := range known {
		if strings.EqualFold(string(s), name) {
			return s, true
		}
	}
	return "", false
}

func surfaceList(known []model.Surface) string {
	names := make([]string, len(known))
	for i, s := range known {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// requirePlayer rejects names that never appear in d.
func requirePlayer(d *dataset.Dataset, name string) error {
	if d.HasPlayer(name) {
		return nil
	}
	hint := ""
	if similar := d.SearchPlayers(name); len(similar) > 0 && len(similar) <= 5 {
		hint = fmt.Sprintf(" (did you mean: %s?)", strings.Join(similar, ", "))
	}
	return fmt.Errorf("unknown player %q%s", name, hint)
}
