package engine

import "fmt"

// Player identifies one of the two seats.
type Player int

const (
	PlayerA Player = iota
	PlayerB
)

// Value is the number of points a triangle is worth to the player who completes it.
func (p Player) Value() int {
	if p == PlayerA {
		return 2
	}
	return 1
}

// Other returns the opponent.
func (p Player) Other() Player {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	default:
		return fmt.Sprintf("player(%d)", int(p))
	}
}

// MarshalText encodes the player as "A" or "B".
func (p Player) MarshalText() ([]byte, error) {
	if p != PlayerA && p != PlayerB {
		return nil, fmt.Errorf("invalid player %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes "A" or "B".
func (p *Player) UnmarshalText(b []byte) error {
	switch string(b) {
	case "A":
		*p = PlayerA
	case "B":
		*p = PlayerB
	default:
		return fmt.Errorf("invalid player %q", b)
	}
	return nil
}

// Phase is derived from the remaining turn budget.
type Phase int

const (
	// AwaitingRoll means no edges remain in the budget; only RollDice advances play.
	AwaitingRoll Phase = iota
	// TurnInProgress means the current player still has edges to draw.
	TurnInProgress
)

func (p Phase) String() string {
	if p == TurnInProgress {
		return "turn_in_progress"
	}
	return "awaiting_roll"
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "awaiting_roll":
		*p = AwaitingRoll
	case "turn_in_progress":
		*p = TurnInProgress
	default:
		return fmt.Errorf("invalid phase %q", b)
	}
	return nil
}
