// Package simulate runs a hypothetical stint plan against a real race
// and prints the outcome next to the driver's actual strategy.
package simulate

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pitwall/strategy-engine-go/pkg/cmd/util"
	"github.com/pitwall/strategy-engine-go/pkg/config"
	"github.com/pitwall/strategy-engine-go/pkg/model"
	"github.com/pitwall/strategy-engine-go/pkg/service"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/recommend"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/simulate"
	"github.com/pitwall/strategy-engine-go/pkg/utils"
)

var (
	year   int
	race   string
	driver string
)

func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <plan>",
		Short: "simulates a stint plan, for example MEDIUM:28,HARD:29",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulatePlan(cmd, args[0])
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "race year (database source)")
	cmd.Flags().StringVar(&race, "race", "", "race name (database source)")
	cmd.Flags().StringVar(&driver, "driver", "", "driver to compare against")
	cmd.Flags().IntVar(&config.MinStintLaps, "min-stint-laps", simulate.DefaultMinStint,
		"minimum laps per stint")
	cmd.Flags().Float64Var(&config.MinLapTime, "min-lap-time", simulate.DefaultMinLapTime,
		"lower clamp for simulated lap times")
	cmd.Flags().Float64Var(&config.PitLossOverride, "pit-loss", 0,
		"pit loss to assume when the session has no pit data")
	return cmd
}

//nolint:funlen // mostly table rendering
func simulatePlan(cmd *cobra.Command, planArg string) error {
	util.SetupLogger()
	session, err := util.ResolveSession(cmd.Context(), year, race)
	if err != nil {
		return err
	}
	plan, err := util.ParsePlan(planArg)
	if err != nil {
		return err
	}
	srv := newService()
	res, err := srv.Simulate(cmd.Context(), session, driver, plan)
	if err != nil {
		return err
	}

	fmt.Printf("Simulated total: %s\n", utils.FormatRaceTime(res.UserTotalTime))
	if res.Actual != nil {
		fmt.Printf("Actual total (%s): %s\n", driver, utils.FormatRaceTime(res.Actual.TotalTime))
	}
	if res.DegradedConfidence {
		fmt.Println("Warning: no pit data in session, pit loss assumed")
	}

	if len(res.StintAnalysis) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.SetTitle("Stint comparison")
		t.AppendHeader(table.Row{"Stint", "Compound", "Laps", "Delta", "Verdict"})
		for _, sa := range res.StintAnalysis {
			t.AppendRow(table.Row{
				sa.Stint, sa.Compound, sa.Laps,
				fmt.Sprintf("%+.3fs", sa.Delta), sa.Explanation,
			})
		}
		t.Render()
	}

	if len(res.SuggestedStrategies) > 0 {
		renderSuggestions(res.SuggestedStrategies)
	}
	return nil
}

func newService() *service.StrategyService {
	return service.NewStrategyService(
		service.WithMinStintLaps(config.MinStintLaps),
		service.WithMinLapTime(config.MinLapTime),
		service.WithPitLossOverride(config.PitLossOverride),
		service.WithRecommender(recommend.New(
			recommend.WithGridStep(config.LapGridStep),
			recommend.WithTopK(config.TopSuggestions),
		)),
	)
}

func renderSuggestions(suggestions []model.SuggestedStrategy) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Suggested strategies")
	t.AppendHeader(table.Row{"Label", "Stints", "Total", "Delta"})
	for _, s := range suggestions {
		t.AppendRow(table.Row{
			s.Label,
			util.FormatPlan(s.Stints),
			utils.FormatRaceTime(s.TotalTime),
			fmt.Sprintf("%+.3fs", s.DeltaVsActual),
		})
	}
	t.Render()
}
