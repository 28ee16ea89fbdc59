// Command cli is the instructor tool: run a CSV strategy locally, solve the
// DP benchmark, and generate blank templates.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pricing-grader/internal/benchmark"
	"pricing-grader/internal/config"
	"pricing-grader/internal/csvio"
	"pricing-grader/internal/model"
	"pricing-grader/internal/sim"
)

func main() {
	root := &cobra.Command{
		Use:           "grader",
		Short:         "Dynamic-pricing strategy grader",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("config", "", "Path to YAML config (defaults apply when omitted)")

	root.AddCommand(simulateCmd())
	root.AddCommand(benchmarkCmd())
	root.AddCommand(templateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func simulateCmd() *cobra.Command {
	var (
		csvPath     string
		trials      int
		seed        int64
		lastMinuteK int
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a CSV strategy through the Monte Carlo engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(csvPath)
			if err != nil {
				return err
			}

			parsed := csvio.ParseCSV(string(raw))
			if !parsed.Valid {
				for _, e := range parsed.Errors {
					fmt.Fprintf(os.Stderr, "row %d col %d: %s\n", e.Row, e.Col, e.Message)
				}
				return fmt.Errorf("CSV validation failed with %d errors", len(parsed.Errors))
			}

			policy, err := csvio.Normalize(parsed)
			if err != nil {
				return err
			}

			// The CLI grades whatever dimensions the CSV has; the
			// locked-dimension check is an API concern.
			simCfg := model.SimConfig{
				I:           parsed.I,
				T:           parsed.T,
				Trials:      cfg.DefaultTrials,
				Seed:        cfg.RNGSeed,
				LastMinuteK: cfg.DefaultLastMinuteK,
			}
			if trials > 0 {
				simCfg.Trials = trials
			}
			if cmd.Flags().Changed("seed") {
				simCfg.Seed = seed
			}
			if lastMinuteK > 0 {
				simCfg.LastMinuteK = lastMinuteK
			}
			if simCfg.LastMinuteK > simCfg.T {
				simCfg.LastMinuteK = simCfg.T
			}

			engine, err := sim.NewEngine(simCfg, cfg.AssignmentVersion, sim.NewBankCache())
			if err != nil {
				return err
			}
			results, err := engine.RunSimulation(policy)
			if err != nil {
				return err
			}

			if bench, err := benchmark.New(simCfg); err == nil {
				optimal, _ := bench.Solve()
				if regret, err := engine.CalculateRegret(policy, optimal); err == nil {
					results.Aggregates.Regret = &regret
				}
			}

			printAggregates(results)

			if outPath != "" {
				blob, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, blob, 0o644); err != nil {
					return err
				}
				fmt.Printf("Wrote full results to %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to the strategy CSV")
	cmd.Flags().IntVar(&trials, "trials", 0, "Monte Carlo trials (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (default from config)")
	cmd.Flags().IntVar(&lastMinuteK, "last-minute-k", 0, "Trailing window size (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "Optional path for full results JSON")
	cmd.MarkFlagRequired("csv")
	return cmd
}

func benchmarkCmd() *cobra.Command {
	var (
		capI       int
		periodsT   int
		outCSV     string
		compareCSV string
	)

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Solve the DP benchmark and inspect the optimal policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			simCfg := cfg.DefaultSimConfig()
			if capI > 0 {
				simCfg.I = capI
			}
			if periodsT > 0 {
				simCfg.T = periodsT
			}
			if simCfg.LastMinuteK > simCfg.T {
				simCfg.LastMinuteK = simCfg.T
			}

			bench, err := benchmark.New(simCfg)
			if err != nil {
				return err
			}
			optimal, policy := bench.Solve()

			fmt.Printf("Optimal expected revenue (I=%d, T=%d): %.2f\n", simCfg.I, simCfg.T, optimal)

			structure := bench.AnalyzeStructure()
			fmt.Printf("Capacity monotonic: %v\n", structure.CapacityMonotonic)
			fmt.Printf("Time monotonic:     %v\n", structure.TimeMonotonic)
			fmt.Println(structure.Summary)

			if compareCSV != "" {
				raw, err := os.ReadFile(compareCSV)
				if err != nil {
					return err
				}
				parsed := csvio.ParseCSV(string(raw))
				if !parsed.Valid {
					return fmt.Errorf("comparison CSV invalid: %d errors", len(parsed.Errors))
				}
				given, err := csvio.Normalize(parsed)
				if err != nil {
					return err
				}
				diffs, err := bench.CompareWithPolicy(given)
				if err != nil {
					return err
				}
				fmt.Printf("Policy differs from optimal in %d of %d cells\n",
					len(diffs), simCfg.I*simCfg.T)
				for _, d := range diffs {
					fmt.Printf("  capacity=%d period=%d: %s, optimal %s\n",
						d.Capacity, d.Period,
						model.PriceLabel(d.PolicyPrice), model.PriceLabel(d.OptimalPrice))
				}
			}

			if outCSV != "" {
				if err := csvio.WritePolicyCSV(outCSV, policy); err != nil {
					return err
				}
				fmt.Printf("Wrote optimal policy to %s\n", outCSV)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&capI, "i", 0, "Starting capacity (default: locked dimension)")
	cmd.Flags().IntVar(&periodsT, "t", 0, "Number of periods (default: locked dimension)")
	cmd.Flags().StringVar(&outCSV, "out-csv", "", "Optional path to export the optimal policy CSV")
	cmd.Flags().StringVar(&compareCSV, "compare-csv", "", "Optional strategy CSV to diff against the optimal policy")
	return cmd
}

func templateCmd() *cobra.Command {
	var (
		capI     int
		periodsT int
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a blank strategy CSV template",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if capI == 0 {
				capI = cfg.LockI
			}
			if periodsT == 0 {
				periodsT = cfg.LockT
			}

			content := csvio.Template(capI, periodsT)
			if outPath == "" {
				fmt.Print(content)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %dx%d template to %s\n", capI, periodsT, outPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&capI, "i", 0, "Capacity levels (default: locked dimension)")
	cmd.Flags().IntVar(&periodsT, "t", 0, "Periods (default: locked dimension)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path (stdout when omitted)")
	return cmd
}

func printAggregates(results *model.SimulationResults) {
	agg := results.Aggregates
	fmt.Printf("Trials:            %d (seed %d)\n", results.Config.Trials, results.Config.Seed)
	fmt.Printf("Avg revenue:       %.2f (std %.2f)\n", agg.AvgRevenue, agg.StdRevenue)
	fmt.Printf("Fill rate:         %.3f\n", agg.FillRate)
	fmt.Printf("Avg price:         %.2f\n", agg.AvgPrice)
	fmt.Printf("Last-minute share: %.3f\n", agg.LastMinuteShare)
	if agg.Regret != nil {
		fmt.Printf("Regret:            %.2f\n", *agg.Regret)
	}
	fmt.Printf("Price mix:         LOW=%d MED=%d HIGH=%d\n",
		agg.PriceMix["LOW"], agg.PriceMix["MED"], agg.PriceMix["HIGH"])
}
