// Package recommend searches the plan space of a race and prints the
// best strategies found.
package recommend

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pitwall/strategy-engine-go/pkg/cmd/util"
	"github.com/pitwall/strategy-engine-go/pkg/config"
	"github.com/pitwall/strategy-engine-go/pkg/service"
	"github.com/pitwall/strategy-engine-go/pkg/strategy/recommend"
	"github.com/pitwall/strategy-engine-go/pkg/utils"
)

var (
	year   int
	race   string
	driver string
)

func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "suggests the fastest stint plans for a race",
		RunE: func(cmd *cobra.Command, args []string) error {
			return recommendPlans(cmd)
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "race year (database source)")
	cmd.Flags().StringVar(&race, "race", "", "race name (database source)")
	cmd.Flags().StringVar(&driver, "driver", "", "driver whose race sets the baseline")
	cmd.Flags().IntVar(&config.LapGridStep, "grid-step", recommend.DefaultGridStep,
		"pit-window search granularity in laps")
	cmd.Flags().IntVar(&config.TopSuggestions, "top", recommend.DefaultTopK,
		"number of strategies to print")
	cmd.Flags().Float64Var(&config.PitLossOverride, "pit-loss", 0,
		"pit loss to assume when the session has no pit data")
	return cmd
}

func recommendPlans(cmd *cobra.Command) error {
	util.SetupLogger()
	session, err := util.ResolveSession(cmd.Context(), year, race)
	if err != nil {
		return err
	}
	srv := service.NewStrategyService(
		service.WithMinStintLaps(config.MinStintLaps),
		service.WithMinLapTime(config.MinLapTime),
		service.WithPitLossOverride(config.PitLossOverride),
		service.WithRecommender(recommend.New(
			recommend.WithGridStep(config.LapGridStep),
			recommend.WithTopK(config.TopSuggestions),
		)),
	)
	suggestions, err := srv.Recommend(cmd.Context(), session, driver)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		fmt.Println("Not enough data to fit models for two compounds")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Recommended strategies")
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
	return nil
}
