package server

import (
	"github.com/lawnchairsociety/draftforge/internal/draft"
	"github.com/lawnchairsociety/draftforge/internal/rarity"
	"github.com/lawnchairsociety/draftforge/internal/session"
)

// handler maps requests onto one session. It keeps the pending offer so a
// pick can only choose from what was offered, once.
type handler struct {
	session *session.Session
	offer   []draft.Card
}

func newHandler(sess *session.Session) *handler {
	return &handler{session: sess}
}

func (h *handler) handle(req Request) Response {
	switch req.Action {
	case ActionJobs:
		h.offer = h.session.GenerateJobSelectionCards()
		return Response{Type: TypeOffer, Cards: h.offer}

	case ActionOffer:
		count := req.Count
		if count == 0 {
			count = DefaultOfferCount
		}
		if count < 1 || count > MaxOfferCount {
			return errorResponse("count must be between 1 and %d", MaxOfferCount)
		}
		source := rarity.SourceLevelUp
		if req.Source != "" {
			parsed, err := rarity.ParseSource(req.Source)
			if err != nil {
				return errorResponse("%v", err)
			}
			source = parsed
		}
		h.offer = h.session.GenerateCards(count, source)
		return Response{Type: TypeOffer, Cards: h.offer}

	case ActionPick:
		if req.Index < 0 || req.Index >= len(h.offer) {
			return errorResponse("no offered card at index %d", req.Index)
		}
		card := h.offer[req.Index]
		h.offer = nil
		return Response{Type: TypePicked, Card: &card, Applied: h.session.Apply(card)}

	case ActionLevel:
		if req.Level < 1 {
			return errorResponse("level must be at least 1")
		}
		h.session.SetLevel(req.Level)
		return Response{Type: TypeLevel, Level: h.session.State().Level()}

	case ActionDoubleDown:
		return Response{Type: TypeAdvanced, Advanced: h.session.DoubleDown()}

	case ActionMastery:
		return Response{Type: TypeAdvanced, Advanced: h.session.Mastery()}

	case ActionState:
		snapshot := h.session.Snapshot()
		return Response{Type: TypeState, State: &snapshot}

	default:
		return errorResponse("unknown action %q", req.Action)
	}
}
