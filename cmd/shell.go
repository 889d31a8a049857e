package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pable/go-wta-metrics/internal/aggregator"
	"github.com/pable/go-wta-metrics/internal/config"
	"github.com/pable/go-wta-metrics/internal/dataset"
	"github.com/pable/go-wta-metrics/internal/model"
	"github.com/pable/go-wta-metrics/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Load the dataset once and explore it interactively. Every command reuses the
loaded rows; 'reload' reads the source again. Quote names with spaces:
  h2h "Serena Williams" "Venus Williams"`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// session is the state of one REPL run.
type session struct {
	d   *dataset.Dataset
	out io.Writer
}

func runShell(_ *cobra.Command, _ []string) error {
	d, err := loadDataset()
	if err != nil {
		return err
	}
	s := &session{d: d, out: os.Stdout}

	cGreeting.Println("wtametrics shell")
	s.banner()
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("wtametrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		tokens, err := splitFields(scanner.Text())
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		cmd, args := tokens[0], tokens[1:]
		if cmd == "exit" || cmd == "quit" {
			return nil
		}
		if err := s.dispatch(cmd, args); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				continue
			}
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (s *session) banner() {
	cMuted.Printf("%s: %d matches, %d players, seasons %s\n",
		s.d.Source, len(s.d.Records), len(s.d.Players), seasonRange(s.d.Years))
}

func seasonRange(years []int) string {
	if len(years) == 0 {
		return "none"
	}
	return fmt.Sprintf("%d–%d", years[0], years[len(years)-1])
}

func (s *session) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help":
		shellHelp()
		return nil
	case "overview", "surfaces", "upsets", "browse":
		return s.filtered(cmd, args)
	case "h2h":
		fs, format := formatFlagSet(cmd)
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 2 {
			return errors.New(`usage: h2h "<playerA>" "<playerB>" [--format table|json|yaml]`)
		}
		if err := validateFormat(*format); err != nil {
			return err
		}
		return showH2H(s.out, s.d, fs.Arg(0), fs.Arg(1), *format)
	case "profile":
		fs, format := formatFlagSet(cmd)
		recent := fs.Int("recent", cfg.Recent, "number of recent matches")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New(`usage: profile "<player>" [--recent N] [--format table|json|yaml]`)
		}
		if err := config.Positive("recent", *recent); err != nil {
			return err
		}
		if err := validateFormat(*format); err != nil {
			return err
		}
		return showProfile(s.out, s.d, fs.Arg(0), *recent, *format)
	case "players":
		report.PrintPlayers(s.out, s.d.SearchPlayers(strings.Join(args, " ")), len(s.d.Players))
		return nil
	case "reload":
		return s.reload()
	default:
		cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		return nil
	}
}

// filtered runs one of the commands that take --year and --surface.
func (s *session) filtered(cmd string, args []string) error {
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	year := fs.Int("year", model.AllYears, "season (0 = all years)")
	surfaces := fs.StringSlice("surface", nil, "surfaces to include")
	top := fs.Int("top", cfg.Top, "top-winners length")
	limit := fs.Int("limit", cfg.Limit, "rows to print (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := config.Positive("top", *top); err != nil {
		return err
	}
	if *limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", *limit)
	}
	f, err := buildFilter(s.d, *year, *surfaces)
	if err != nil {
		return err
	}
	switch cmd {
	case "overview":
		showOverview(s.out, s.d, f, *top)
	case "surfaces":
		showSurfaces(s.out, s.d, f)
	case "upsets":
		showUpsets(s.out, s.d, f)
	case "browse":
		view := aggregator.FilterByYearAndSurface(s.d.Records, f)
		cHeader.Fprintf(s.out, "\n=== Matches (%s) ===\n\n", report.FilterLabel(f))
		report.PrintMatches(s.out, view, *limit)
	}
	return nil
}

func formatFlagSet(name string) (*pflag.FlagSet, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	format := fs.String("format", formatTable, "output format")
	return fs, format
}

func (s *session) reload() error {
	var (
		d   *dataset.Dataset
		err error
	)
	if cfg.FromDB != "" {
		d, err = loadStored(cfg.FromDB)
	} else {
		d, err = cache.Reload(cfg.Data)
	}
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	s.d = d
	s.banner()
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"overview [--year Y] [--surface S,..] [--top N]", "KPIs, top winners, matches by round"},
		{"surfaces [--year Y] [--surface S,..]", "matches per surface"},
		{"upsets [--year Y] [--surface S,..]", "upset rate, odds gap, yearly trend"},
		{"browse [--year Y] [--surface S,..] [--limit N]", "print filtered rows"},
		{`h2h "<A>" "<B>" [--format F]`, "head-to-head record"},
		{`profile "<player>" [--recent N] [--format F]`, "player career profile"},
		{"players [text]", "list or search player names"},
		{"reload", "read the dataset again"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-50s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// splitFields splits a shell line on whitespace, keeping single- or
// double-quoted runs together.
func splitFields(line string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		quote   rune
		inField bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inField = true
		case unicode.IsSpace(r):
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		default:
			cur.WriteRune(r)
			inField = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
