package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-racer/internal/registry"
	"github.com/vovakirdan/tui-racer/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores <track>",
	Short: "Show race results for a track",
	Long: `Display the best race results for the specified track, ordered by
placement and then by time, plus the coin wallet balance.

Examples:
  racer scores racer
  racer scores racer_oval --limit 20
  racer scores racer --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of results to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all results for the track")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown track %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'racer list' to see available tracks.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating race: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearResults(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing results: %v\n", err)
			return
		}
		fmt.Printf("Cleared results for %s.\n", title)
		return
	}

	results, err := store.TopResults(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		return
	}

	fmt.Printf("Race Results - %s\n", title)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No races finished yet.")
		fmt.Println()
		fmt.Printf("Run 'racer play %s' to post the first time!\n", gameID)
	} else {
		fmt.Printf("  %-4s  %-5s  %-9s  %-5s  %s\n", "Rank", "Place", "Time", "Coins", "Date")
		fmt.Printf("  %-4s  %-5s  %-9s  %-5s  %s\n", "----", "-----", "----", "-----", "----")

		for i, r := range results {
			fmt.Printf("  %-4d  %-5d  %-9s  %-5d  %s\n",
				i+1, r.Placement, fmt.Sprintf("%.2fs", r.Seconds), r.Pickups,
				r.CreatedAt.Format("2006-01-02 15:04"))
		}

		fmt.Println()
		if best, ok, err := store.BestTime(gameID); err == nil && ok {
			fmt.Printf("Best winning time: %.2fs\n", best)
		}
	}

	if coins, err := store.Coins(); err == nil {
		fmt.Printf("Wallet: %d coins\n", coins)
	}
}
