package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured about path calculation and execution.
type Settings struct {
	Calculation Calculation
	Movement    Movement
	Execution   Execution
	Debug       Debug
}

// Calculation configures the A* path calculator and the coordinator scheduling calculations.
type Calculation struct {
	// MaxNodes is the amount of nodes the calculator may expand before returning the best partial path.
	MaxNodes int
	// MinimumImprovement is the amount a route to a node must be cheaper than the known route before
	// the node is updated.
	MinimumImprovement float64
	// MaxChunkBorderFetch is the amount of movements into unloaded chunks the calculator tolerates
	// before giving up early.
	MaxChunkBorderFetch int
	// PlanAheadTicks is the estimated amount of ticks left on a partial path at which the next segment
	// starts being calculated.
	PlanAheadTicks float64
	// CutoffFactor is the share of a partial path that is kept when it is longer than
	// CutoffMinimumLength.
	CutoffFactor float64
	// CutoffMinimumLength is the length a partial path must have before it is cut off.
	CutoffMinimumLength int
	// StallLimit is the amount of consecutive partial segments that may end without getting closer to
	// the goal before pathing gives up.
	StallLimit int
}

// Movement configures which movements are allowed and how much they cost.
type Movement struct {
	AllowBreak    bool
	AllowPlace    bool
	AllowSprint   bool
	AllowParkour  bool
	AllowDiagonal bool
	AllowDownward bool
	// MaxFallHeight is the highest fall, in blocks, that does not end in water.
	MaxFallHeight int
	JumpPenalty   float64
	BreakPenalty  float64
	PlaceCost     float64
	// BreakReach is the maximum distance from the eyes of the agent to a block it interacts with.
	BreakReach float64
	// PrepWaitTicks is the amount of ticks a movement waits for a block to come into reach.
	PrepWaitTicks int
}

// Execution configures the path executor.
type Execution struct {
	// MaxDistFromPath is the distance from the path at which the agent is considered to be drifting.
	MaxDistFromPath float64
	// MaxMaxDistFromPath is the distance from the path at which the path is cancelled immediately.
	MaxMaxDistFromPath float64
	// MaxTicksAway is the amount of ticks the agent may drift before the path is cancelled.
	MaxTicksAway int
	// CostVerificationLookahead is the amount of upcoming movements whose cost is verified.
	CostVerificationLookahead int
	// MaxCostIncrease is the increase in cost of the current movement that cancels the path when the
	// movement was calculated while its area was not loaded.
	MaxCostIncrease float64
	// MovementTimeoutTicks is added to the estimated cost of a movement to give the amount of ticks
	// it may take before the path is cancelled.
	MovementTimeoutTicks float64
	// SplicePath enables joining newly calculated segments onto the path being executed.
	SplicePath bool
	// BlockWindow is the amount of movements behind and ahead of the current one whose blocks to
	// break, place and avoid are tracked.
	BlockWindow int
	// MaxPathHistoryLength is the amount of walked movements kept before the start of a path is cut
	// off when splicing.
	MaxPathHistoryLength int
	// PathHistoryCutoffAmount is the amount of walked movements removed when the history is cut.
	PathHistoryCutoffAmount int
}

// Debug configures diagnostics.
type Debug struct {
	LogLevel      string
	StatsView     bool
	StatsViewAddr string
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}

	s.Calculation.MaxNodes = 200_000
	s.Calculation.MinimumImprovement = 0.01
	s.Calculation.MaxChunkBorderFetch = 50
	s.Calculation.PlanAheadTicks = 150
	s.Calculation.CutoffFactor = 0.9
	s.Calculation.CutoffMinimumLength = 30
	s.Calculation.StallLimit = 3

	s.Movement.AllowBreak = true
	s.Movement.AllowPlace = true
	s.Movement.AllowSprint = true
	s.Movement.AllowParkour = true
	s.Movement.AllowDiagonal = true
	s.Movement.AllowDownward = true
	s.Movement.MaxFallHeight = 3
	s.Movement.JumpPenalty = 2
	s.Movement.BreakPenalty = 2
	s.Movement.PlaceCost = 20
	s.Movement.BreakReach = 4.5
	s.Movement.PrepWaitTicks = 20

	s.Execution.MaxDistFromPath = 2
	s.Execution.MaxMaxDistFromPath = 3
	s.Execution.MaxTicksAway = 200
	s.Execution.CostVerificationLookahead = 5
	s.Execution.MaxCostIncrease = 10
	s.Execution.MovementTimeoutTicks = 100
	s.Execution.SplicePath = true
	s.Execution.BlockWindow = 10
	s.Execution.MaxPathHistoryLength = 300
	s.Execution.PathHistoryCutoffAmount = 50

	s.Debug.LogLevel = "info"
	s.Debug.StatsViewAddr = "localhost:8080"
	return s
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.New("settings file already exists")
	}
	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Values missing from the file keep their defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, errors.New("settings file doesn't exist")
		}
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}

	s := DefaultSettings()
	if err = toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	return s, nil
}
