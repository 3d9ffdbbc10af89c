// Package analyze prints the fitted degradation, fuel and pit-loss data
// for a race snapshot.
package analyze

import (
	"fmt"
	"os"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pitwall/strategy-engine-go/pkg/cmd/util"
	"github.com/pitwall/strategy-engine-go/pkg/service"
)

var (
	year int
	race string
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "shows degradation models, fuel effect and pit stats for a race",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeRace(cmd)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "race year (database source)")
	cmd.Flags().StringVar(&race, "race", "", "race name (database source)")
	return cmd
}

func analyzeRace(cmd *cobra.Command) error {
	util.SetupLogger()
	session, err := util.ResolveSession(cmd.Context(), year, race)
	if err != nil {
		return err
	}
	srv := service.NewStrategyService()
	deg := srv.Degradation(cmd.Context(), session)
	pit := srv.PitStats(cmd.Context(), session)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Degradation models (%d laps)", deg.TotalLaps)
	t.AppendHeader(table.Row{"Compound", "Base time", "Deg rate", "Samples"})
	compounds := make([]string, 0, len(deg.Compounds))
	for compound := range deg.Compounds {
		compounds = append(compounds, compound)
	}
	slices.Sort(compounds)
	for _, compound := range compounds {
		curve := deg.Compounds[compound]
		samples := 0
		for _, c := range curve.Count {
			samples += c
		}
		if m, ok := deg.Models[compound]; ok {
			t.AppendRow(table.Row{
				compound,
				fmt.Sprintf("%.3fs", m.BaseTime),
				fmt.Sprintf("%+.3fs/lap", m.DegRate),
				samples,
			})
		} else {
			t.AppendRow(table.Row{compound, "insufficient data", "-", samples})
		}
	}
	t.Render()

	if deg.FuelEffect != nil {
		fmt.Printf("Fuel effect: %+.3fs per lap (%+.1fs over race distance)\n",
			deg.FuelEffect.PerLap, deg.FuelEffect.Total)
	}
	if pit != nil {
		fmt.Printf("Pit loss: avg %.1fs min %.1fs max %.1fs (%d stops)\n",
			pit.Avg, pit.Min, pit.Max, pit.Count)
	} else {
		fmt.Println("Pit loss: no pit events observed")
	}
	return nil
}
