package tennis

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidPointModel is returned for negative or NaN model parameters.
var ErrInvalidPointModel = errors.New("invalid point model")

// Source supplies uniform floats in [0, 1). *engine.ByteGenerator and
// *math/rand.Rand both satisfy it.
type Source interface {
	Float64() float64
}

// Side identifies one of the two players.
type Side int

const (
	PlayerOne Side = 1
	PlayerTwo Side = 2
)

func (s Side) String() string {
	switch s {
	case PlayerOne:
		return "player_one"
	case PlayerTwo:
		return "player_two"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "player_one":
		*s = PlayerOne
	case "player_two":
		*s = PlayerTwo
	default:
		return fmt.Errorf("unknown side %q", b)
	}
	return nil
}

// PointOutcome is the result of one exchange.
type PointOutcome int

const (
	NoScore PointOutcome = iota
	PlayerOneScores
	PlayerTwoScores
)

func (o PointOutcome) String() string {
	switch o {
	case NoScore:
		return "no_score"
	case PlayerOneScores:
		return "player_one_scores"
	case PlayerTwoScores:
		return "player_two_scores"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (o PointOutcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// PointModel holds the tuning knobs of point resolution.
//
// NoiseStdDev scales the uniform noise added to the skill differential,
// ErrorBias is added to both skills when an error is attributed, and
// Boundary is the width of the band around zero inside which the exchange
// is decided by errors rather than by the skill gap alone.
type PointModel struct {
	NoiseStdDev float64 `json:"noise_std_dev"`
	ErrorBias   float64 `json:"error_bias"`
	Boundary    float64 `json:"boundary"`
}

// Point model preset names.
const (
	ModelTight = "tight"
	ModelWide  = "wide"
)

var (
	// PointModelTight is the default calibration: little noise, so decisive
	// gaps are rarely overturned.
	PointModelTight = PointModel{NoiseStdDev: 0.1, ErrorBias: 0.0, Boundary: 1.0}
	// PointModelWide adds heavy noise, a wider error band and a small bias
	// that pulls error attribution towards an even split.
	PointModelWide = PointModel{NoiseStdDev: 0.5, ErrorBias: 0.05, Boundary: 1.5}
)

var pointModelPresets = map[string]PointModel{
	ModelTight: PointModelTight,
	ModelWide:  PointModelWide,
}

// PointModelPreset looks up a calibration by name.
func PointModelPreset(name string) (PointModel, error) {
	m, ok := pointModelPresets[name]
	if !ok {
		return PointModel{}, fmt.Errorf("%w: point model %q", ErrUnknownPreset, name)
	}
	return m, nil
}

// PointModelPresets returns a copy of the registered calibrations.
func PointModelPresets() map[string]PointModel {
	out := make(map[string]PointModel, len(pointModelPresets))
	for k, v := range pointModelPresets {
		out[k] = v
	}
	return out
}

// PointModelPresetNames lists calibrations in sorted order.
func PointModelPresetNames() []string {
	names := make([]string, 0, len(pointModelPresets))
	for name := range pointModelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate rejects NaN and negative parameters.
func (m PointModel) Validate() error {
	params := []struct {
		name  string
		value float64
	}{
		{"noise_std_dev", m.NoiseStdDev},
		{"error_bias", m.ErrorBias},
		{"boundary", m.Boundary},
	}
	for _, p := range params {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) || p.value < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidPointModel, p.name, p.value)
		}
	}
	return nil
}

// Resolve plays one exchange between a and b.
//
// A noisy skill differential outside the boundary band scores directly.
// Inside the band the exchange ends without a score unless an error occurs,
// errors being likelier between weaker players; an error is then credited
// in proportion to skill. If both skills and the bias are zero the error is
// split evenly.
func (m PointModel) Resolve(src Source, a, b Player) PointOutcome {
	skillA, skillB := a.skill, b.skill

	differential := skillA - skillB + (src.Float64()-0.5)*m.NoiseStdDev
	half := m.Boundary / 2
	if differential < -half {
		return PlayerTwoScores
	}
	if differential > half {
		return PlayerOneScores
	}

	errorProbability := 1 - (skillA+skillB)/2
	if src.Float64() > errorProbability {
		return NoScore
	}

	share := 0.5
	if total := skillA + skillB + 2*m.ErrorBias; total > 0 {
		share = (skillA + m.ErrorBias) / total
	}
	if src.Float64() < share {
		return PlayerOneScores
	}
	return PlayerTwoScores
}

// ResolvePoint is Resolve with the model passed explicitly.
func ResolvePoint(src Source, a, b Player, model PointModel) PointOutcome {
	return model.Resolve(src, a, b)
}
