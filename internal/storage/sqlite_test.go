package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveResult(RaceResult{GameID: "racer", Placement: 1, Seconds: 40}); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	results, err := store.TopResults("racer", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 result after reopen, got %d", len(results))
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	saved := []RaceResult{
		{GameID: "racer", Placement: 2, Seconds: 35.5, Pickups: 10, Laps: 3},
		{GameID: "racer", Placement: 1, Seconds: 48.2, Pickups: 20, Laps: 3},
		{GameID: "racer", Placement: 1, Seconds: 41.0, Pickups: 12, Laps: 3},
		{GameID: "racer_oval", Placement: 3, Seconds: 60, Pickups: 1, Laps: 3},
	}
	for _, r := range saved {
		id, err := store.SaveResult(r)
		if err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
		if _, err := ksuid.Parse(id); err != nil {
			t.Errorf("SaveResult() returned a malformed id %q: %v", id, err)
		}
	}

	results, err := store.TopResults("racer", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	// Placement first, then time
	want := []float64{41.0, 48.2, 35.5}
	for i, r := range results {
		if r.Seconds != want[i] {
			t.Errorf("result %d: expected %.1fs, got %.1fs", i, want[i], r.Seconds)
		}
	}
	if results[0].Pickups != 12 || results[0].Laps != 3 || results[0].GameID != "racer" {
		t.Errorf("fields not round-tripped: %+v", results[0])
	}
	if results[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	oval, err := store.TopResults("racer_oval", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(oval) != 1 {
		t.Errorf("Expected 1 oval result, got %d", len(oval))
	}
}

func TestStoreTopResultsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveResult(RaceResult{GameID: "test", Placement: 1, Seconds: float64(50 - i)})
	}

	results, err := store.TopResults("test", 3)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Expected 3 results with limit, got %d", len(results))
	}
	if results[0].Seconds != 46 || results[2].Seconds != 48 {
		t.Errorf("Results not in expected order: %v", results)
	}

	recent, err := store.RecentResults("test", 0)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(recent) != 5 {
		t.Errorf("Expected default limit to cover 5 results, got %d", len(recent))
	}
}

func TestStoreBestTime(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.BestTime("racer"); err != nil || ok {
		t.Fatalf("BestTime() on empty store = ok %v, err %v", ok, err)
	}

	store.SaveResult(RaceResult{GameID: "racer", Placement: 2, Seconds: 20})
	if _, ok, _ := store.BestTime("racer"); ok {
		t.Error("losing races should not count as a best time")
	}

	store.SaveResult(RaceResult{GameID: "racer", Placement: 1, Seconds: 45})
	store.SaveResult(RaceResult{GameID: "racer", Placement: 1, Seconds: 39.5})

	best, ok, err := store.BestTime("racer")
	if err != nil {
		t.Fatalf("BestTime() failed: %v", err)
	}
	if !ok || best != 39.5 {
		t.Errorf("Expected best time 39.5, got %v (ok=%v)", best, ok)
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(RaceResult{GameID: "racer", Placement: 1, Seconds: 30})
	store.SaveResult(RaceResult{GameID: "racer_oval", Placement: 1, Seconds: 30})

	if err := store.ClearResults("racer"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	results, _ := store.TopResults("racer", 10)
	if len(results) != 0 {
		t.Errorf("Expected 0 results after clear, got %d", len(results))
	}
	oval, _ := store.TopResults("racer_oval", 10)
	if len(oval) != 1 {
		t.Errorf("Clearing one track should keep the others, got %d", len(oval))
	}
}

func TestStoreWallet(t *testing.T) {
	store := openTestStore(t)

	coins, err := store.Coins()
	if err != nil {
		t.Fatalf("Coins() failed: %v", err)
	}
	if coins != 0 {
		t.Errorf("Expected empty wallet, got %d", coins)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.AddCoins(1); err != nil {
			t.Fatalf("AddCoins() failed: %v", err)
		}
	}
	balance, err := store.AddCoins(4)
	if err != nil {
		t.Fatalf("AddCoins() failed: %v", err)
	}
	if balance != 7 {
		t.Errorf("Expected balance 7, got %d", balance)
	}

	balance, _ = store.AddCoins(-10)
	if balance != 0 {
		t.Errorf("Balance should not go negative, got %d", balance)
	}
	if coins, _ := store.Coins(); coins != 0 {
		t.Errorf("Coins() = %d, want 0", coins)
	}
}
