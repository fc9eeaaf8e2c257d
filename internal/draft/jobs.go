package draft

import (
	"strings"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/modifier"
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/rarity"
)

// AwakeningTitle is the title of the roster-locking card.
const AwakeningTitle = "Awakening"

// GenerateJobSelectionCards returns the job milestone offer: three open jobs
// while fewer than two are held, two open jobs plus awakening once exactly
// two are held, and nothing after the roster is full or locked.
func (g *Generator) GenerateJobSelectionCards(state progression.Reader) []Card {
	if state.Awakened() {
		return nil
	}

	held := len(state.Jobs())
	canChoose := held < state.Limits().MaxJobs

	var cards []Card
	switch {
	case held == 2:
		if canChoose {
			cards = g.jobCards(state, 2)
		}
		cards = append(cards, awakeningCard(state))
	case canChoose:
		cards = g.jobCards(state, 3)
	}
	return cards
}

func (g *Generator) jobCards(state progression.Reader, n int) []Card {
	var open []*catalog.Job
	for _, job := range g.registry.Jobs() {
		if !state.HasJob(job.ID) {
			open = append(open, job)
		}
	}
	g.rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	if len(open) > n {
		open = open[:n]
	}

	cards := make([]Card, 0, len(open))
	for _, job := range open {
		cards = append(cards, g.jobCard(job))
	}
	return cards
}

func (g *Generator) jobCard(job *catalog.Job) Card {
	var b strings.Builder
	b.WriteString(job.Description)
	if w, ok := g.registry.Weapon(job.Weapon); ok {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("Grants " + w.Name + ".")
	}
	if len(job.Passive) > 0 {
		b.WriteString(" Passive: " + modifier.Describe(job.Passive, 1))
	}
	return Card{
		Category:    CategoryJobSelection,
		Title:       job.Name,
		Description: strings.TrimSpace(b.String()),
		Rarity:      rarity.Common,
		Job:         job.ID,
		Weapon:      job.Weapon,
	}
}

func awakeningCard(state progression.Reader) Card {
	return Card{
		Category:    CategoryAwakening,
		Title:       AwakeningTitle,
		Description: "Lock in " + strings.Join(state.Jobs(), " and ") + " and unlock mastery skills.",
		Rarity:      rarity.Legendary,
	}
}
