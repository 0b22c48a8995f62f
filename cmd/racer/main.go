// racer is an arcade lane racer for the terminal.
//
// Usage:
//
//	racer list              - List available tracks
//	racer play <track>      - Race on a track
//	racer menu              - Start menu to pick tracks interactively
//	racer serve             - Start SSH server for remote play
//	racer scores <track>    - Show race results for a track
//	racer sim               - Run a headless race driven by the autopilot
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible races
//	--db <path>     - Set database path (default: ~/.arcade/racer.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import the racer to register its tracks
	_ "github.com/vovakirdan/tui-racer/internal/games/racer"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "racer",
	Short: "TUI Racer - lane racing in your terminal",
	Long: `TUI Racer is a terminal arcade racer. Steer between lanes, grab coins,
dodge obstacles and boost past the AI field to the finish.

Available commands:
  list     - Show all available tracks
  play     - Race on a specific track
  menu     - Interactive track picker menu
  serve    - Start SSH server for remote play
  scores   - View race results
  sim      - Run a headless autopilot race

Examples:
  racer list
  racer play racer
  racer menu
  racer serve --ssh :2222
  racer scores racer_oval
  racer sim --track racer_oval --seed 7`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/racer.db", "Path to results database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}
