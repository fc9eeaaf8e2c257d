package draft

import (
	"log/slog"
	"math/rand"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/logger"
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/rarity"
)

// Options tunes the candidate pool.
type Options struct {
	// PoolAttempts is the number of draws made per offer.
	PoolAttempts int
	// PoolFactor stops drawing once the pool holds PoolFactor*count cards.
	PoolFactor int
	// RangeCardChance is the chance a stat boost becomes a range card.
	RangeCardChance float64
}

// DefaultOptions returns the standard pool tuning.
func DefaultOptions() Options {
	return Options{PoolAttempts: 50, PoolFactor: 3, RangeCardChance: 0.2}
}

// Generator builds card offers. It draws all randomness from the injected
// source, so two generators with equal seeds over equal states produce
// equal offers.
type Generator struct {
	registry *catalog.Registry
	resolver *Resolver
	roller   *rarity.Roller
	rng      *rand.Rand
	opts     Options
	log      *slog.Logger
}

// NewGenerator creates a generator.
func NewGenerator(registry *catalog.Registry, resolver *Resolver, roller *rarity.Roller, rng *rand.Rand, opts Options) *Generator {
	if opts.PoolAttempts < 1 {
		opts.PoolAttempts = DefaultOptions().PoolAttempts
	}
	if opts.PoolFactor < 1 {
		opts.PoolFactor = DefaultOptions().PoolFactor
	}
	return &Generator{
		registry: registry,
		resolver: resolver,
		roller:   roller,
		rng:      rng,
		opts:     opts,
		log:      logger.With("draft"),
	}
}

// GenerateCards returns count cards with distinct titles. It never fails:
// an undersized pool is filled by the fallback cascade, whose last stage may
// repeat a stat boost once that catalog is exhausted.
func (g *Generator) GenerateCards(state progression.Reader, count int, source rarity.Source) []Card {
	if count <= 0 {
		return nil
	}

	pool := newCardSet()
	categories := g.resolver.Resolve(state)
	if len(categories) > 0 {
		limit := g.opts.PoolFactor * count
		for attempt := 0; attempt < g.opts.PoolAttempts && pool.len() < limit; attempt++ {
			category := pickWeighted(g.rng, categories)
			r := g.roller.Roll(state.Level(), source)
			card, ok := g.builderFor(category)(state, r)
			if !ok {
				continue
			}
			pool.add(card)
		}
	}

	cards := pool.cards
	g.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	if len(cards) > count {
		cards = cards[:count]
	}

	if len(cards) < count {
		g.log.Debug("pool undersized, using fallback", "pool", len(cards), "count", count)
		cards = g.fallback(state, source, cards, count)
	}
	return cards
}

// cardSet keeps cards in insertion order with unique titles.
type cardSet struct {
	cards  []Card
	titles map[string]bool
}

func newCardSet(cards ...Card) *cardSet {
	s := &cardSet{titles: make(map[string]bool)}
	for _, c := range cards {
		s.add(c)
	}
	return s
}

func (s *cardSet) add(c Card) bool {
	if s.titles[c.Title] {
		return false
	}
	s.titles[c.Title] = true
	s.cards = append(s.cards, c)
	return true
}

func (s *cardSet) len() int { return len(s.cards) }
