package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lawnchairsociety/draftforge/internal/draft"
	"github.com/lawnchairsociety/draftforge/internal/modifier"
	"github.com/lawnchairsociety/draftforge/internal/rarity"
	"github.com/lawnchairsociety/draftforge/internal/session"
)

const offerSize = 3

var (
	titleStyle  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(180, 100, 255)).Bold(true)
	normalStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statStyle   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(150, 220, 255))
	noticeStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 200, 50))
)

// picker is the interactive screen for one session.
type picker struct {
	screen  tcell.Screen
	session *session.Session
	offer   []draft.Card
	heading string
	message string
}

func newPicker(screen tcell.Screen, sess *session.Session) *picker {
	return &picker{
		screen:  screen,
		session: sess,
		message: "Press [j] to choose your first job.",
	}
}

// run draws and handles events until the player quits.
func (p *picker) run() {
	for {
		p.draw()
		if !p.handle(p.screen.PollEvent()) {
			return
		}
	}
}

// handle applies one event and reports whether the picker keeps running.
func (p *picker) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		p.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		switch r := ev.Rune(); r {
		case 'q', 'Q':
			return false
		case 'j', 'J':
			p.showOffer("Job milestone", p.session.GenerateJobSelectionCards())
			if len(p.offer) == 0 {
				p.message = "No job choices available."
			}
		case 'l', 'L':
			p.session.SetLevel(p.session.State().Level() + 1)
			p.showOffer(fmt.Sprintf("Level %d", p.session.State().Level()),
				p.session.GenerateCards(offerSize, rarity.SourceLevelUp))
		case 'c', 'C':
			p.showOffer("Chest", p.session.GenerateCards(offerSize, rarity.SourceChest))
		case 'e', 'E':
			p.showOffer("Elite kill", p.session.GenerateCards(offerSize, rarity.SourceElite))
		case 'd', 'D':
			p.advanced("Double down", p.session.DoubleDown())
		case 'm', 'M':
			p.advanced("Mastery", p.session.Mastery())
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			p.pick(int(r - '1'))
		}
	}
	return true
}

func (p *picker) showOffer(heading string, cards []draft.Card) {
	p.heading = heading
	p.offer = cards
	p.message = ""
}

func (p *picker) pick(idx int) {
	if idx < 0 || idx >= len(p.offer) {
		return
	}
	card := p.offer[idx]
	p.offer = nil
	p.heading = ""
	if p.session.Apply(card) {
		p.message = "Picked " + card.Title + "."
	} else {
		p.message = card.Title + " had no effect."
	}
}

func (p *picker) advanced(label string, jobs []string) {
	if len(jobs) == 0 {
		p.message = label + ": nothing left to advance."
		return
	}
	p.message = fmt.Sprintf("%s: %s advanced.", label, strings.Join(jobs, ", "))
}

func (p *picker) draw() {
	p.screen.Clear()
	w, _ := p.screen.Size()
	snap := p.session.Snapshot()

	y := 1
	drawText(p.screen, 2, y, w-4, "DRAFTFORGE", titleStyle)
	y += 2

	drawText(p.screen, 2, y, w-4, fmt.Sprintf("Level %d   Seed %d", snap.Player.Level, p.session.Seed()), normalStyle)
	y++

	jobs := "none"
	if len(snap.Jobs) > 0 {
		parts := make([]string, len(snap.Jobs))
		for i, j := range snap.Jobs {
			parts[i] = fmt.Sprintf("%s T%d", j, snap.PassiveTiers[j])
		}
		jobs = strings.Join(parts, ", ")
		if snap.Awakened {
			jobs += " (awakened)"
		}
	}
	drawText(p.screen, 2, y, w-4, "Jobs: "+jobs, statStyle)
	y++

	weapons := make([]string, len(snap.Weapons))
	for i, wpn := range snap.Weapons {
		s := fmt.Sprintf("%s Lv%d", wpn.ID, wpn.Level)
		if wpn.HasEnchant() {
			s += fmt.Sprintf(" +%s T%d", wpn.Enchant.ID, wpn.Enchant.Tier)
		}
		if wpn.HasElement() {
			s += " /" + wpn.Element.ID
		}
		weapons[i] = s
	}
	drawText(p.screen, 2, y, w-4, "Weapons: "+strings.Join(weapons, ", "), statStyle)
	y++

	if len(snap.ActiveSynergies) > 0 {
		drawText(p.screen, 2, y, w-4, "Synergies: "+strings.Join(snap.ActiveSynergies, ", "), statStyle)
		y++
	}
	if mods := modifierLine(snap.Modifiers); mods != "" {
		drawText(p.screen, 2, y, w-4, mods, dimStyle)
		y++
	}
	y++

	if len(p.offer) > 0 {
		drawText(p.screen, 2, y, w-4, p.heading, titleStyle)
		y++
		for i, card := range p.offer {
			style := tcell.StyleDefault.Foreground(tcell.GetColor(card.Rarity.Color()))
			drawText(p.screen, 2, y, w-4, fmt.Sprintf("[%d] %-9s %s", i+1, card.Rarity, card.Title), style)
			y++
			if card.Description != "" {
				drawText(p.screen, 18, y, w-20, card.Description, dimStyle)
				y++
			}
		}
		y++
	}

	if p.message != "" {
		drawText(p.screen, 2, y, w-4, p.message, noticeStyle)
		y++
	}

	drawText(p.screen, 2, y+1, w-4, "[1-9] Pick   [j] Job   [l] Level up   [c] Chest   [e] Elite   [d] Double down   [m] Mastery   [q] Quit", dimStyle)
	p.screen.Show()
}

// modifierLine lists the channels that moved off their baseline.
func modifierLine(values map[modifier.Channel]float64) string {
	var parts []string
	for _, c := range modifier.AllChannels() {
		v, ok := values[c]
		if !ok || v == c.Baseline() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.2f", c.Label(), v))
	}
	return strings.Join(parts, "  ")
}

// drawText writes text at (x, y), truncated to maxWidth cells. Wide runes
// take two cells.
func drawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	if maxWidth <= 0 {
		return
	}
	text = runewidth.Truncate(text, maxWidth, "…")
	col := x
	for _, ch := range text {
		screen.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
}
