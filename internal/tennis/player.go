package tennis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSkill is returned when a skill falls outside [0, 1].
var ErrInvalidSkill = errors.New("skill should be from 0 to 1")

// Player is an immutable participant: a name and a skill in [0, 1].
type Player struct {
	name  string
	skill float64
}

// NewPlayer validates skill and returns the player.
func NewPlayer(name string, skill float64) (Player, error) {
	if math.IsNaN(skill) || skill < 0 || skill > 1 {
		return Player{}, fmt.Errorf("%w: %q has skill %v", ErrInvalidSkill, name, skill)
	}
	return Player{name: name, skill: skill}, nil
}

func (p Player) Name() string   { return p.name }
func (p Player) Skill() float64 { return p.skill }
func (p Player) String() string { return fmt.Sprintf("%s (%.2f)", p.name, p.skill) }

func (p Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string  `json:"name"`
		Skill float64 `json:"skill"`
	}{p.name, p.skill})
}
