package server

import (
	"encoding/json"
	"fmt"

	"github.com/lawnchairsociety/draftforge/internal/draft"
	"github.com/lawnchairsociety/draftforge/internal/progression"
)

// Actions a client may send.
const (
	ActionJobs       = "jobs"
	ActionOffer      = "offer"
	ActionPick       = "pick"
	ActionLevel      = "level"
	ActionDoubleDown = "double_down"
	ActionMastery    = "mastery"
	ActionState      = "state"
)

// Response types sent back.
const (
	TypeWelcome  = "welcome"
	TypeOffer    = "offer"
	TypePicked   = "picked"
	TypeLevel    = "level"
	TypeAdvanced = "advanced"
	TypeState    = "state"
	TypeError    = "error"
)

// DefaultOfferCount is used when an offer request omits count.
const DefaultOfferCount = 3

// MaxOfferCount bounds a single offer.
const MaxOfferCount = 8

// Request is one client message.
type Request struct {
	Action string `json:"action"`
	Count  int    `json:"count,omitempty"`
	Source string `json:"source,omitempty"`
	Index  int    `json:"index,omitempty"`
	Level  int    `json:"level,omitempty"`
}

// Response is one server message. Only the fields of its Type are set.
type Response struct {
	Type     string                `json:"type"`
	Seed     int64                 `json:"seed,omitempty"`
	Cards    []draft.Card          `json:"cards,omitempty"`
	Card     *draft.Card           `json:"card,omitempty"`
	Applied  bool                  `json:"applied,omitempty"`
	Level    int                   `json:"level,omitempty"`
	Advanced []string              `json:"advanced,omitempty"`
	State    *progression.Snapshot `json:"state,omitempty"`
	Error    string                `json:"error,omitempty"`
}

func errorResponse(format string, args ...any) Response {
	return Response{Type: TypeError, Error: fmt.Sprintf(format, args...)}
}

// decodeRequest parses one JSON request.
func decodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if req.Action == "" {
		return Request{}, fmt.Errorf("%w: missing action", ErrMalformed)
	}
	return req, nil
}
