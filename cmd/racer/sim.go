package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-racer/internal/games/racer"
	"github.com/vovakirdan/tui-racer/internal/storage"
)

var (
	flagSimTrack   string
	flagSimLimit   float64
	flagSimSave    bool
	flagSimVerbose bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless race driven by the autopilot",
	Long: `Run a full race without a terminal UI. The autopilot steers the player
toward coins, around obstacles and boosts whenever it can. Useful for
tuning configs and checking that a seed is winnable.

Examples:
  racer sim
  racer sim --track racer_oval --seed 7
  racer sim --config ./my-race.yaml --difficulty hard --verbose
  racer sim --save`,
	Run: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimTrack, "track", racer.IDBoulevard, "Track ID to race on")
	simCmd.Flags().Float64Var(&flagSimLimit, "limit", 600, "Give up after this many seconds of race time")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the result in the results database")
	simCmd.Flags().BoolVarP(&flagSimVerbose, "verbose", "v", false, "Log every pickup, lap and phase change")
	simCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom race config YAML")
	simCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runSim(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "racer-sim",
	})
	if flagSimVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	kind, ok := racer.TrackKind(flagSimTrack)
	if !ok {
		logger.Fatal("unknown track", "track", flagSimTrack)
	}

	racer.SetConfigPath(flagConfig)
	racer.SetDifficultyPreset(flagDifficulty)
	cfg := racer.LoadConfig(kind)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var result storage.RaceResult
	engine := racer.NewEngine(racer.Options{
		Config: cfg,
		Rand:   rand.New(rand.NewSource(seed)),
		Hooks: racer.Hooks{
			OnPickup: func(count int) {
				logger.Debug("pickup", "count", count)
			},
			OnFinish: func(placement int, seconds float64, pickups int) {
				result = storage.RaceResult{
					GameID:    flagSimTrack,
					Placement: placement,
					Seconds:   seconds,
					Pickups:   pickups,
					Laps:      cfg.Race.LapsToWin,
				}
			},
		},
	})

	logger.Info("race starting",
		"track", flagSimTrack,
		"kind", kind,
		"seed", seed,
		"laps", cfg.Race.LapsToWin,
		"opponents", cfg.AI.Count,
	)

	dt := 1.0 / float64(max(flagFPS, 1))
	phase := engine.Phase()
	laps := 0
	finished := racer.Drive(engine, dt, flagSimLimit, func(s racer.Snapshot) {
		if s.Phase != phase {
			logger.Debug("phase", "from", phase, "to", s.Phase, "t", fmt.Sprintf("%.2f", s.Elapsed))
			phase = s.Phase
		}
		if s.Player.Laps != laps {
			laps = s.Player.Laps
			logger.Debug("lap", "lap", laps, "place", s.CurrentPlacement(), "t", fmt.Sprintf("%.2f", s.Elapsed))
		}
	})

	if !finished {
		s := engine.Snapshot()
		logger.Fatal("race did not finish",
			"limit", flagSimLimit,
			"laps", s.Player.Laps,
			"progress", fmt.Sprintf("%.3f", s.Player.Progress),
		)
	}

	logger.Info("race finished",
		"placement", result.Placement,
		"seconds", fmt.Sprintf("%.2f", result.Seconds),
		"pickups", result.Pickups,
	)

	if !flagSimSave {
		return
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Fatal("could not open results database", "error", err)
	}
	defer store.Close()

	id, err := store.SaveResult(result)
	if err != nil {
		logger.Error("could not save result", "error", err)
		return
	}
	balance, err := store.AddCoins(result.Pickups)
	if err != nil {
		logger.Error("could not credit coins", "error", err)
		return
	}
	logger.Info("result saved", "id", id, "wallet", balance)
}
