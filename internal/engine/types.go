package engine

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptySeed is returned when a seed pair has a blank half.
var ErrEmptySeed = errors.New("server and client seeds must be non-empty")

// Seeds key a family of random streams.
type Seeds struct {
	Server string `json:"server"` // ASCII; do NOT hex-decode
	Client string `json:"client"`
}

// Validate checks both halves are present.
func (s Seeds) Validate() error {
	if strings.TrimSpace(s.Server) == "" || strings.TrimSpace(s.Client) == "" {
		return ErrEmptySeed
	}
	return nil
}

// RandomSeeds returns a fresh seed pair for callers that do not need
// reproducibility. The pair is still reported back so a run can be replayed.
func RandomSeeds() Seeds {
	return Seeds{
		Server: uuid.NewString(),
		Client: uuid.NewString(),
	}
}

// OrRandom returns s, or a random pair when s is the zero value.
func (s Seeds) OrRandom() Seeds {
	if s.Server == "" && s.Client == "" {
		return RandomSeeds()
	}
	return s
}
