package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chargewise/chargewise/config"
	"github.com/chargewise/chargewise/core/model"
	"github.com/chargewise/chargewise/core/planner"
	"github.com/chargewise/chargewise/core/preference"
	"github.com/chargewise/chargewise/infra/logger"
)

var (
	planForecastPath string
	planStart        string
	planEnd          string
	planEnergy       float64
	planRate         float64
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute one charging schedule from a forecast file",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planForecastPath, "forecast", "forecast.json", "forecast slots JSON file")
	planCmd.Flags().StringVar(&planStart, "start", "", "session start (RFC 3339)")
	planCmd.Flags().StringVar(&planEnd, "end", "", "session end (RFC 3339)")
	planCmd.Flags().Float64Var(&planEnergy, "energy", 40, "energy needed in kWh")
	planCmd.Flags().Float64Var(&planRate, "rate", 7, "max charge rate in kW")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	start, err := time.Parse(time.RFC3339, planStart)
	if err != nil {
		return fmt.Errorf("parse start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, planEnd)
	if err != nil {
		return fmt.Errorf("parse end: %w", err)
	}

	raw, err := os.ReadFile(planForecastPath)
	if err != nil {
		return fmt.Errorf("read forecast: %w", err)
	}
	var slots []model.ForecastSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return fmt.Errorf("decode forecast: %w", err)
	}

	p := planner.New(cfg.Scoring, cfg.Planner, logger.New("plan-command"))
	schedule, err := p.Optimize(model.SessionRequest{
		SessionStart:    start,
		SessionEnd:      end,
		EnergyNeededKWh: planEnergy,
		MaxChargeRateKW: planRate,
	}, slots, preference.State{})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(schedule, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
