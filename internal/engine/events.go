package engine

import "github.com/tesselate/tesselate/internal/board"

// EventKind identifies an engine event.
type EventKind string

const (
	EventReset           EventKind = "reset"
	EventDiceRolled      EventKind = "dice_rolled"
	EventEdgePlaced      EventKind = "edge_placed"
	EventMoveRejected    EventKind = "move_rejected"
	EventTriangleClaimed EventKind = "triangle_claimed"
	EventTurnEnded       EventKind = "turn_ended"
	EventGameOver        EventKind = "game_over"
)

// Event is delivered to subscribers after the command that produced it completes.
type Event struct {
	Kind    EventKind
	Payload any
}

type ResetPayload struct {
	Pattern string `json:"pattern"`
	Points  int    `json:"points"`
}

type DiceRolledPayload struct {
	Player Player `json:"player"`
	Roll   int    `json:"roll"`
}

type EdgePlacedPayload struct {
	Player    Player     `json:"player"`
	Edge      board.Edge `json:"edge"`
	Remaining int        `json:"remaining"`
}

type MoveRejectedPayload struct {
	Player Player `json:"player"`
	U      int    `json:"u"`
	V      int    `json:"v"`
	Reason string `json:"reason"`
}

type TriangleClaimedPayload struct {
	Player   Player         `json:"player"`
	Triangle board.Triangle `json:"triangle"`
	Points   int            `json:"points"`
}

type TurnEndedPayload struct {
	Player Player `json:"player"`
	Next   Player `json:"next"`
	Turn   int    `json:"turn"`
}

type GameOverPayload struct {
	ScoreA int `json:"scoreA"`
	ScoreB int `json:"scoreB"`
	// Winner is empty on a tie.
	Winner string `json:"winner"`
}
