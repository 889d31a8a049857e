package aggregator

import (
	"sort"

	"github.com/pable/go-wta-metrics/internal/model"
)

// HeadToHead collects every match between a and b, in either player order,
// sorted by date ascending. Pairs that never met give an empty, well-formed
// result. Every surface the pair played on lists wins for both players, zero
// included, sorted by surface name.
func HeadToHead(records []model.MatchRecord, a, b string) (model.HeadToHead, error) {
	if a == b {
		return model.HeadToHead{}, ErrIdenticalPlayers
	}

	h := model.HeadToHead{
		PlayerA:   a,
		PlayerB:   b,
		BySurface: []model.SurfaceWins{},
		Matches:   []model.MatchRecord{},
	}
	for _, r := range records {
		if (r.Player1 == a && r.Player2 == b) || (r.Player1 == b && r.Player2 == a) {
			h.Matches = append(h.Matches, r)
		}
	}
	sort.SliceStable(h.Matches, func(i, j int) bool {
		return h.Matches[i].Date.Before(h.Matches[j].Date)
	})

	bySurface := make(map[model.Surface]*model.SurfaceWins)
	for _, r := range h.Matches {
		sw := bySurface[r.Surface]
		if sw == nil {
			sw = &model.SurfaceWins{Surface: r.Surface}
			bySurface[r.Surface] = sw
		}
		switch r.Winner {
		case a:
			h.WinsA++
			sw.WinsA++
		case b:
			h.WinsB++
			sw.WinsB++
		}
	}
	h.TotalMatches = len(h.Matches)

	for _, sw := range bySurface {
		h.BySurface = append(h.BySurface, *sw)
	}
	sort.Slice(h.BySurface, func(i, j int) bool {
		return h.BySurface[i].Surface < h.BySurface[j].Surface
	})
	return h, nil
}

// PlayerProfile summarises player's matches across records: totals, wins per
// surface and per year, favourite surface, and the most recent matches
// (recent <= 0 means DefaultRecent), newest first.
//
// The favourite surface is the one with the most wins; ties go to the
// alphabetically first surface. It is empty when the player has no wins.
func PlayerProfile(records []model.MatchRecord, player string, recent int) model.PlayerProfile {
	if recent <= 0 {
		recent = DefaultRecent
	}
	p := model.PlayerProfile{
		Player:        player,
		WinsBySurface: []model.SurfaceCount{},
		WinsByYear:    []model.YearCount{},
		Recent:        []model.RecentMatch{},
	}

	var played []model.MatchRecord
	surfaceWins := make(map[model.Surface]int)
	yearWins := make(map[int]int)
	for _, r := range records {
		if !r.Involves(player) {
			continue
		}
		played = append(played, r)
		if r.Winner == player {
			p.Wins++
			surfaceWins[r.Surface]++
			yearWins[r.Year]++
		}
	}
	p.TotalMatches = len(played)

	for s, n := range surfaceWins {
		p.WinsBySurface = append(p.WinsBySurface, model.SurfaceCount{Surface: s, Matches: n})
	}
	sort.Slice(p.WinsBySurface, func(i, j int) bool {
		wi, wj := p.WinsBySurface[i], p.WinsBySurface[j]
		if wi.Matches != wj.Matches {
			return wi.Matches > wj.Matches
		}
		return wi.Surface < wj.Surface
	})
	if len(p.WinsBySurface) > 0 {
		p.FavoriteSurface = p.WinsBySurface[0].Surface
	}

	for y, n := range yearWins {
		p.WinsByYear = append(p.WinsByYear, model.YearCount{Year: y, Count: n})
	}
	sort.Slice(p.WinsByYear, func(i, j int) bool { return p.WinsByYear[i].Year < p.WinsByYear[j].Year })

	sort.SliceStable(played, func(i, j int) bool { return played[i].Date.After(played[j].Date) })
	if len(played) > recent {
		played = played[:recent]
	}
	for _, r := range played {
		p.Recent = append(p.Recent, model.RecentMatch{
			Match:    r,
			Opponent: r.Opponent(player),
			Result:   r.ResultFor(player),
		})
	}
	return p
}
