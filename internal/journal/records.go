package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lawnchairsociety/draftforge/internal/draft"
	"github.com/lawnchairsociety/draftforge/internal/logger"
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/signal"
)

// Pick is one recorded card choice.
type Pick struct {
	ID       int64
	RunID    int64
	Level    int
	Category string
	Title    string
	Rarity   string
	PickedAt time.Time
}

// StartRun records a new run and returns its id.
func (j *Journal) StartRun(seed int64) (int64, error) {
	id, err := j.insert(`INSERT INTO runs (seed, started_at) VALUES (?, ?)`, seed, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}
	return id, nil
}

// RecordOffer stores the titles of one generated offer.
func (j *Journal) RecordOffer(runID int64, level int, source string, cards []draft.Card) error {
	titles := make([]string, len(cards))
	for i, c := range cards {
		titles[i] = c.Title
	}
	_, err := j.insert(`INSERT INTO offers (run_id, level, source, titles, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, level, source, strings.Join(titles, "|"), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record offer: %w", err)
	}
	return nil
}

// RecordPick stores one applied card.
func (j *Journal) RecordPick(runID int64, level int, card draft.Card) error {
	_, err := j.insert(`INSERT INTO picks (run_id, level, category, title, rarity, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, level, string(card.Category), card.Title, card.Rarity.String(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record pick: %w", err)
	}
	return nil
}

// EndRun closes a run with the final build.
func (j *Journal) EndRun(runID int64, snapshot progression.Snapshot) error {
	modifiers, err := json.Marshal(snapshot.Modifiers)
	if err != nil {
		return fmt.Errorf("failed to encode modifiers: %w", err)
	}
	_, err = j.db.Exec(j.qb.Build(`UPDATE runs SET ended_at = ?, final_level = ?, jobs = ?, modifiers = ? WHERE id = ?`),
		time.Now().UTC(), snapshot.Player.Level, strings.Join(snapshot.Jobs, ","), string(modifiers), runID)
	if err != nil {
		return fmt.Errorf("failed to end run: %w", err)
	}
	return nil
}

// PickCounts counts recorded picks. With an empty category it counts per
// category; otherwise it counts per title within that category.
func (j *Journal) PickCounts(category string) (map[string]int, error) {
	query := `SELECT category, COUNT(*) FROM picks GROUP BY category`
	var args []any
	if category != "" {
		query = `SELECT title, COUNT(*) FROM picks WHERE category = ? GROUP BY title`
		args = append(args, category)
	}

	rows, err := j.db.Query(j.qb.Build(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count picks: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// Picks returns the picks of one run in order.
func (j *Journal) Picks(runID int64) ([]Pick, error) {
	rows, err := j.db.Query(j.qb.Build(`
		SELECT id, run_id, level, category, title, rarity, created_at
		FROM picks
		WHERE run_id = ?
		ORDER BY id ASC
	`), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks: %w", err)
	}
	defer rows.Close()

	var picks []Pick
	for rows.Next() {
		var p Pick
		if err := rows.Scan(&p.ID, &p.RunID, &p.Level, &p.Category, &p.Title, &p.Rarity, &p.PickedAt); err != nil {
			return nil, err
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

// Attach records every EnhancementPicked signal of a session under runID.
// Write failures are logged and never interrupt play. The returned func
// detaches the journal.
func (j *Journal) Attach(bus *signal.Bus, runID int64, level func() int) func() {
	return bus.Subscribe(signal.EnhancementPicked, func(args ...any) {
		if len(args) == 0 {
			return
		}
		card, ok := args[0].(draft.Card)
		if !ok {
			return
		}
		if err := j.RecordPick(runID, level(), card); err != nil {
			logger.Warning("journal write failed", "run", runID, "error", err)
		}
	})
}
