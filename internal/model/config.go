package model

import "errors"

// Assignment-wide bounds. The API layer rejects requests outside these; the
// engines only require positive dimensions and a valid last-minute window.
const (
	MaxCapacity    = 20
	MaxPeriods     = 50
	MinTrials      = 100
	MaxTrials      = 10000
	MaxLastMinuteK = 10

	DefaultSeed        int64 = 42
	DefaultTrials            = 2000
	DefaultLastMinuteK       = 3
)

// SimConfig is the simulation configuration. Together with a PolicyMatrix it
// fully determines the behavior of both the Monte Carlo engine and the DP
// benchmark. Immutable once constructed.
type SimConfig struct {
	// I is the starting capacity (units of inventory).
	I int `json:"I" yaml:"i"`
	// T is the number of selling periods.
	T int `json:"T" yaml:"t"`
	// Trials is the Monte Carlo sample count.
	Trials int `json:"trials" yaml:"trials"`
	// Seed drives the deterministic random source.
	Seed int64 `json:"seed" yaml:"seed"`
	// LastMinuteK is the size of the trailing window for the
	// last-minute share metric.
	LastMinuteK int `json:"last_minute_k" yaml:"last_minute_k"`
}

// Validate checks the constraints both engines rely on. It is called at
// engine construction, before any simulation work begins.
func (c SimConfig) Validate() error {
	if c.I <= 0 || c.T <= 0 {
		return errors.New("capacity and periods must be positive")
	}
	if c.Trials <= 0 {
		return errors.New("number of trials must be positive")
	}
	if c.LastMinuteK <= 0 {
		return errors.New("last_minute_k must be positive")
	}
	if c.LastMinuteK > c.T {
		return errors.New("last_minute_k cannot exceed total periods")
	}
	return nil
}
