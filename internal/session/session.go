// Package session wires one play session: its state, bus, generator,
// applier, synergy detector, passive tiers and optional journal.
package session

import (
	"math/rand"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/config"
	"github.com/lawnchairsociety/draftforge/internal/draft"
	"github.com/lawnchairsociety/draftforge/internal/journal"
	"github.com/lawnchairsociety/draftforge/internal/logger"
	"github.com/lawnchairsociety/draftforge/internal/passive"
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/rarity"
	"github.com/lawnchairsociety/draftforge/internal/signal"
	"github.com/lawnchairsociety/draftforge/internal/synergy"
)

// Session is single-threaded: callers drive it from one goroutine.
type Session struct {
	seed      int64
	registry  *catalog.Registry
	state     *progression.State
	bus       *signal.Bus
	generator *draft.Generator
	applier   *draft.Applier
	detector  *synergy.Detector
	passive   *passive.Progression

	journal *journal.Journal
	runID   int64
	detach  func()
}

// New creates a session for player using the engine tuning and a source
// seeded with seed.
func New(registry *catalog.Registry, player *progression.Player, engine config.EngineConfig, seed int64) *Session {
	rng := rand.New(rand.NewSource(seed))
	state := progression.New(player, progression.Limits{
		MaxWeapons: engine.MaxWeapons,
		MaxJobs:    engine.MaxJobs,
	})
	bus := signal.NewBus()

	roller := rarity.NewRoller(rng, rarity.Bonuses{
		Chest: engine.Rarity.ChestBonus,
		Elite: engine.Rarity.EliteBonus,
	})
	resolver := draft.NewResolver(registry, engine.CategoryWeights, engine.MalusMinLevel)
	generator := draft.NewGenerator(registry, resolver, roller, rng, draft.Options{
		PoolAttempts:    engine.PoolAttempts,
		PoolFactor:      engine.PoolFactor,
		RangeCardChance: engine.RangeCardChance,
	})

	return &Session{
		seed:      seed,
		registry:  registry,
		state:     state,
		bus:       bus,
		generator: generator,
		applier:   draft.NewApplier(registry, state, bus),
		detector:  synergy.NewDetector(registry, state, bus),
		passive:   passive.New(registry, state, bus),
	}
}

// AttachJournal starts a journal run for this session. Offers and picks are
// recorded until Close.
func (s *Session) AttachJournal(j *journal.Journal) error {
	runID, err := j.StartRun(s.seed)
	if err != nil {
		return err
	}
	s.journal = j
	s.runID = runID
	s.detach = j.Attach(s.bus, runID, s.state.Level)
	return nil
}

// GenerateCards offers count cards for a trigger source.
func (s *Session) GenerateCards(count int, source rarity.Source) []draft.Card {
	cards := s.generator.GenerateCards(s.state, count, source)
	s.recordOffer(string(source), cards)
	return cards
}

// GenerateJobSelectionCards offers the job milestone choices.
func (s *Session) GenerateJobSelectionCards() []draft.Card {
	cards := s.generator.GenerateJobSelectionCards(s.state)
	if len(cards) > 0 {
		s.recordOffer("job", cards)
	}
	return cards
}

// Apply applies a picked card.
func (s *Session) Apply(card draft.Card) bool {
	return s.applier.Apply(card)
}

// DoubleDown advances every chosen job's passive to the next tier.
func (s *Session) DoubleDown() []string {
	return s.passive.DoubleDown()
}

// Mastery performs the second passive advance.
func (s *Session) Mastery() []string {
	return s.passive.Mastery()
}

// SetLevel moves the player to level. Levels below 1 are ignored.
func (s *Session) SetLevel(level int) {
	if level >= 1 {
		s.state.Player().Level = level
	}
}

// State returns the read side of the progression state.
func (s *Session) State() progression.Reader { return s.state }

// Snapshot copies the progression state.
func (s *Session) Snapshot() progression.Snapshot { return s.state.Snapshot() }

// Bus returns the session's signal bus for external subscribers.
func (s *Session) Bus() *signal.Bus { return s.bus }

// Registry returns the definitions the session draws from.
func (s *Session) Registry() *catalog.Registry { return s.registry }

// Seed returns the seed of the session's random source.
func (s *Session) Seed() int64 { return s.seed }

// Close ends the journal run, if any, and unsubscribes every component.
func (s *Session) Close() {
	if s.journal != nil {
		s.detach()
		if err := s.journal.EndRun(s.runID, s.state.Snapshot()); err != nil {
			logger.Warning("journal end run failed", "run", s.runID, "error", err)
		}
		s.journal = nil
	}
	s.detector.Close()
	s.passive.Close()
}

func (s *Session) recordOffer(source string, cards []draft.Card) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordOffer(s.runID, s.state.Level(), source, cards); err != nil {
		logger.Warning("journal write failed", "run", s.runID, "error", err)
	}
}
