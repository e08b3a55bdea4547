// Command planctl is a demo/ops CLI that wires mockprovider's fixture data
// into the planner, the same way a real service would wire in a live
// ServiceProvider. It exists to exercise the core end to end from the
// command line, not as a production operator tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/onwardrail/core/boardcache"
	"github.com/onwardrail/core/config"
	"github.com/onwardrail/core/domain"
	"github.com/onwardrail/core/identify"
	"github.com/onwardrail/core/mockprovider"
	"github.com/onwardrail/core/planner"
	"github.com/onwardrail/core/railtime"
	"github.com/onwardrail/core/station"
	"github.com/onwardrail/core/walkgraph"
)

var version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

var (
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleStation = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	styleTime    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "planctl",
		Short:   "Demo CLI for the onward rail journey planner core",
		Version: version,
	}
	root.AddCommand(planCmd())
	return root
}

func planCmd() *cobra.Command {
	var from, to, terminus string
	var maxChanges int

	cmd := &cobra.Command{
		Use:   "plan <from> <to>",
		Short: "Plan onward journeys from a board station to a destination",
		Long: `Identifies the passenger's current service from the fixture board at
<from> and searches for journeys onward to <to>. --terminus narrows which
service on the board is "yours" when several are heading the same way.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from = args[0]
			to = args[1]
			return runPlan(from, to, terminus, maxChanges)
		},
	}
	cmd.Flags().StringVar(&terminus, "terminus", "", "the terminus of the train you're on, if known")
	cmd.Flags().IntVar(&maxChanges, "max-changes", 0, "override the configured maximum number of changes (0 = use config default)")
	return cmd
}

func runPlan(fromStr, toStr, terminusStr string, maxChanges int) error {
	cfg := config.Load()
	logger := log.Default()

	from, err := station.Parse(fromStr)
	if err != nil {
		return fmt.Errorf("invalid from station: %w", err)
	}
	to, err := station.Parse(toStr)
	if err != nil {
		return fmt.Errorf("invalid destination station: %w", err)
	}

	provider, err := mockprovider.New(cfg.MockDataDir, logger)
	if err != nil {
		return fmt.Errorf("load mock data: %w", err)
	}

	now := railtime.FromTime(time.Now())
	board, err := provider.GetDepartures(context.Background(), from, now)
	if err != nil {
		return fmt.Errorf("fetch board at %s: %w", from, err)
	}

	var terminusCode *station.Code
	if terminusStr != "" {
		t, err := station.Parse(terminusStr)
		if err != nil {
			return fmt.Errorf("invalid --terminus station: %w", err)
		}
		terminusCode = &t
	}

	match, err := identify.Identify(board, terminusCode)
	if err != nil {
		return fmt.Errorf("identify current service: %w", err)
	}

	searchCfg := cfg.Search
	if maxChanges > 0 {
		searchCfg.MaxChanges = maxChanges
	}

	cache := boardcache.New(boardcache.Config{
		TTL:           cfg.CacheTTL,
		MaxCapacity:   cfg.CacheCapacity,
		BucketMinutes: 10,
	})

	searcher := planner.NewSearcher(provider, cache, walkgraph.New(), searchCfg)
	result, err := searcher.Plan(context.Background(), planner.Request{
		CurrentService:  match.Service,
		CurrentPosition: match.BoardIndex,
		Destination:     to,
	})
	if err != nil {
		return fmt.Errorf("plan journey: %w", err)
	}

	render(match, result)
	return nil
}

func render(match *identify.Match, result *planner.Result) {
	fmt.Println(styleHeader.Render(fmt.Sprintf("Identified service: %s", match.Service.Ref)))
	fmt.Println(styleMuted.Render(fmt.Sprintf("routes explored: %d", result.RoutesExplored)))
	fmt.Println()

	if len(result.Journeys) == 0 {
		fmt.Println(styleMuted.Render("no journeys found"))
		return
	}

	for i, j := range result.Journeys {
		fmt.Printf("%s %s\n", styleHeader.Render(fmt.Sprintf("%d.", i+1)), describeJourney(j))
	}
}

func describeJourney(j *domain.Journey) string {
	var parts []string
	for _, leg := range j.Legs() {
		parts = append(parts, fmt.Sprintf(
			"%s %s -> %s %s",
			styleTime.Render(leg.DepartureTime().String()),
			styleStation.Render(leg.BoardStation().String()),
			styleStation.Render(leg.AlightStation().String()),
			styleTime.Render(leg.ArrivalTime().String()),
		))
	}
	return fmt.Sprintf(
		"%s (%d change%s, %s) via %s",
		strings.Join([]string{parts[0], parts[len(parts)-1]}, " ... "),
		j.ChangeCount(),
		plural(j.ChangeCount()),
		j.TotalDuration(),
		strings.Join(parts, " | "),
	)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
