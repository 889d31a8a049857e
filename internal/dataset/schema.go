package dataset

import "strings"

type column int

const (
	colDate column = iota
	colTournament
	colSurface
	colRound
	colPlayer1
	colPlayer2
	colWinner
	colScore
	colSetsPlayed
	colUpset
	colOddsGap
	colYear
	numColumns
)

// canonicalNames is the internal schema, indexed by column.
var canonicalNames = [numColumns]string{
	colDate:       "date",
	colTournament: "tournament",
	colSurface:    "surface",
	colRound:      "round",
	colPlayer1:    "player_1",
	colPlayer2:    "player_2",
	colWinner:     "winner",
	colScore:      "score",
	colSetsPlayed: "sets_played",
	colUpset:      "upset",
	colOddsGap:    "odds_gap",
	colYear:       "year",
}

// aliases maps lower-cased header names seen across dataset revisions to
// canonical columns.
var aliases = map[string]column{
	"date":        colDate,
	"tournament":  colTournament,
	"surface":     colSurface,
	"round":       colRound,
	"player_1":    colPlayer1,
	"player_2":    colPlayer2,
	"winner":      colWinner,
	"score":       colScore,
	"sets_played": colSetsPlayed,
	"avg_sets":    colSetsPlayed,
	"upset":       colUpset,
	"upset_rate":  colUpset,
	"odds_gap":    colOddsGap,
	"year":        colYear,
}

// optional columns may be absent from the header; year is derived from date.
func optional(c column) bool { return c == colYear }

// columnIndex maps each canonical column to its position in a CSV row, -1 if absent.
type columnIndex [numColumns]int

func (ix *columnIndex) has(c column) bool { return ix[c] >= 0 }

// resolveHeader maps a CSV header to the canonical schema. Unknown headers are
// ignored; two headers resolving to the same column, or a missing required
// column, yield a *SchemaError.
func resolveHeader(header []string) (columnIndex, error) {
	var ix columnIndex
	for i := range ix {
		ix[i] = -1
	}
	seen := make(map[column][]string)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		c, ok := aliases[name]
		if !ok {
			continue
		}
		seen[c] = append(seen[c], strings.TrimSpace(h))
		ix[c] = i
	}
	for c := column(0); c < numColumns; c++ {
		if len(seen[c]) > 1 {
			return ix, &SchemaError{Column: canonicalNames[c], Headers: seen[c]}
		}
	}
	for c := column(0); c < numColumns; c++ {
		if !ix.has(c) && !optional(c) {
			return ix, &SchemaError{Column: canonicalNames[c]}
		}
	}
	return ix, nil
}
