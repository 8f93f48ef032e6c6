package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skodde/dockfuzz/internal/config"
	"github.com/skodde/dockfuzz/internal/fuzzer"
	"github.com/skodde/dockfuzz/internal/history"
	"github.com/skodde/dockfuzz/internal/rng"
	"github.com/skodde/dockfuzz/internal/telemetry"
)

var version = "0.3.0"

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = config.Default()
	}

	// Setup telemetry
	var cleanup func(context.Context) error
	if cfg.Telemetry.Enabled {
		cfgDir, _ := config.DefaultConfigDir()
		tracePath := filepath.Join(cfgDir, "traces.json")
		f, err := os.OpenFile(tracePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err == nil {
			cleanup, _ = telemetry.Setup(context.Background(), version, true, f)
		} else {
			cleanup, _ = telemetry.Setup(context.Background(), version, false, nil)
		}
	} else {
		cleanup, _ = telemetry.Setup(context.Background(), version, false, nil)
	}
	defer cleanup(context.Background())

	rootCmd := &cobra.Command{
		Use:   "dockfuzz",
		Short: "Randomized fuzzing harness for dock widget layouts",
		Long: `dockfuzz generates pseudo-random sequences of layout-mutating operations
(adding, closing, floating, docking, resizing dock widgets) and runs them
against a live widget world with a sanity check after every step. Failing
scenarios are dumped to a JSON file for deterministic replay.`,
		Version: version,
	}

	rootCmd.AddCommand(runCmd(cfg))
	rootCmd.AddCommand(replayCmd(cfg))
	rootCmd.AddCommand(generateCmd(cfg))
	rootCmd.AddCommand(historyCmd(cfg))
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd(cfg *config.Config) *cobra.Command {
	var (
		tests    int
		ops      int
		delayMS  int
		dump     bool
		dumpPath string
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and run random tests",
		Long:  "Synthesizes random initial layouts plus operation sequences and replays them with sanity checks until something breaks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rng.New()
			if cmd.Flags().Changed("seed") {
				r = rng.NewSeeded(seed)
			}

			f := fuzzer.New(fuzzer.Options{
				RNG:               r,
				OperationsPerTest: ops,
				Delay:             time.Duration(delayMS) * time.Millisecond,
				DumpOnFailure:     dump,
				DumpPath:          dumpPath,
			})

			store, runID := beginRun(cfg, history.Run{
				Mode:     "fuzz",
				Seed:     r.Seed(),
				NumTests: tests,
				NumOps:   ops,
				DumpPath: dumpPath,
			})

			fmt.Printf("🎲 Running %d tests (%d operations each, seed %d)\n", tests, ops, r.Seed())
			err := f.Fuzz(cmd.Context(), tests)
			finishRun(store, runID, err)
			if err != nil {
				return err
			}

			fmt.Println("✅ All tests passed")
			return nil
		},
	}

	cmd.Flags().IntVarP(&tests, "tests", "n", cfg.Fuzz.NumTests, "number of tests to generate")
	cmd.Flags().IntVar(&ops, "ops", cfg.Fuzz.OperationsPerTest, "operations per test")
	cmd.Flags().IntVar(&delayMS, "delay", cfg.Fuzz.DelayMS, "milliseconds to wait between operations")
	cmd.Flags().BoolVar(&dump, "dump", cfg.Fuzz.DumpOnFailure, "dump the failing test to a file on a fatal condition")
	cmd.Flags().StringVar(&dumpPath, "dump-path", cfg.Fuzz.DumpPath, "where to write the failing test")
	cmd.Flags().Int64Var(&seed, "seed", 0, "explicit RNG seed (default: entropy)")
	return cmd
}

func replayCmd(cfg *config.Config) *cobra.Command {
	var (
		delayMS  int
		dump     bool
		dumpPath string
		pause    bool
	)

	cmd := &cobra.Command{
		Use:   "replay [FILE...]",
		Short: "Replay recorded tests from dump files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pause && len(args) > 1 {
				return fmt.Errorf("--pause-before-last requires a single file")
			}

			f := fuzzer.New(fuzzer.Options{
				Delay:         time.Duration(delayMS) * time.Millisecond,
				DumpOnFailure: dump,
				DumpPath:      dumpPath,
			})

			store, runID := beginRun(cfg, history.Run{
				Mode:     "replay",
				Seed:     f.Seed(),
				NumTests: len(args),
				DumpPath: dumpPath,
			})

			fmt.Printf("🔁 Replaying %d recorded test(s)\n", len(args))
			err := f.ReplayFiles(cmd.Context(), args, pause)
			finishRun(store, runID, err)
			if err != nil {
				return err
			}

			if pause {
				fmt.Println("⏸  Paused before the last operation. Press enter to exit.")
				_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
				return nil
			}

			fmt.Println("✅ Replay passed")
			return nil
		},
	}

	cmd.Flags().IntVar(&delayMS, "delay", cfg.Fuzz.DelayMS, "milliseconds to wait between operations")
	cmd.Flags().BoolVar(&dump, "dump", cfg.Fuzz.DumpOnFailure, "dump the failing test to a file on a fatal condition")
	cmd.Flags().StringVar(&dumpPath, "dump-path", cfg.Fuzz.DumpPath, "where to write the failing test")
	cmd.Flags().BoolVarP(&pause, "pause-before-last", "d", false, "skip the final operation and keep the live state for inspection")
	return cmd
}

func generateCmd(cfg *config.Config) *cobra.Command {
	var (
		tests int
		ops   int
		out   string
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random tests to files without executing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rng.New()
			if cmd.Flags().Changed("seed") {
				r = rng.NewSeeded(seed)
			}

			if err := os.MkdirAll(out, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			generated, err := fuzzer.NewGenerator(r).Tests(tests, ops)
			if err != nil {
				return err
			}

			for i, test := range generated {
				path := filepath.Join(out, fmt.Sprintf("test-%03d.json", i+1))
				if err := test.DumpToFile(path); err != nil {
					return err
				}
				fmt.Printf("📝 %s (%d operations)\n", path, len(test.Operations))
			}

			fmt.Printf("Generated %d test(s) with seed %d\n", len(generated), r.Seed())
			return nil
		},
	}

	cmd.Flags().IntVarP(&tests, "tests", "n", cfg.Fuzz.NumTests, "number of tests to generate")
	cmd.Flags().IntVar(&ops, "ops", cfg.Fuzz.OperationsPerTest, "operations per test")
	cmd.Flags().StringVarP(&out, "out", "o", "testcases", "output directory")
	cmd.Flags().Int64Var(&seed, "seed", 0, "explicit RNG seed (default: entropy)")
	return cmd
}

func historyCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded fuzz runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := openHistory(cfg)
			if store == nil {
				fmt.Println("📜 Run history is disabled")
				return nil
			}
			defer store.Close()

			runs, err := store.Runs()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("📜 Run history (empty)")
				return nil
			}

			fmt.Println("📜 Run history:")
			for _, r := range runs {
				var icon string
				switch r.Outcome {
				case history.OutcomePassed:
					icon = "✅"
				case history.OutcomeFailed:
					icon = "❌"
				default:
					icon = "⚠️ " // still "running": the process died mid-run
				}
				fmt.Printf("%s %s  %s  %-6s seed=%-20d tests=%d\n",
					icon, r.StartedAt.Format(time.RFC3339), r.ID[:8], r.Mode, r.Seed, r.NumTests)
			}
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize dockfuzz configuration",
		Long:  "Creates the ~/.dockfuzz directory with a default configuration file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.DefaultConfigDir()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfgDir, 0700); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}

			path := filepath.Join(cfgDir, "config.yaml")
			if _, err := os.Stat(path); err == nil {
				fmt.Printf("⚠️  Config already exists at %s\n", path)
				return nil
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Printf("🪟 Initialized config at %s\n", path)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dockfuzz version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dockfuzz %s\n", version)
		},
	}
}

// openHistory opens the run store, or nil when history is disabled or
// unavailable. History failures never block a fuzz run.
func openHistory(cfg *config.Config) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	path := cfg.History.Path
	if path == "" {
		cfgDir, err := config.DefaultConfigDir()
		if err != nil {
			return nil
		}
		if err := os.MkdirAll(cfgDir, 0700); err != nil {
			return nil
		}
		path = filepath.Join(cfgDir, "runs.db")
	}
	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run history unavailable: %v\n", err)
		return nil
	}
	return store
}

func beginRun(cfg *config.Config, run history.Run) (*history.Store, string) {
	store := openHistory(cfg)
	if store == nil {
		return nil, ""
	}
	run.ID = uuid.New().String()
	run.StartedAt = time.Now()
	if err := store.Begin(run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record run: %v\n", err)
		_ = store.Close()
		return nil, ""
	}
	return store, run.ID
}

func finishRun(store *history.Store, id string, runErr error) {
	if store == nil {
		return
	}
	outcome := history.OutcomePassed
	if runErr != nil {
		outcome = history.OutcomeFailed
	}
	if err := store.Finish(id, outcome, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record outcome: %v\n", err)
	}
	_ = store.Close()
}
