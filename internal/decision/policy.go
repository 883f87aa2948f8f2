// Package decision provides the household migration decision policies.
package decision

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPolicy is returned by Parse for an unrecognised policy name.
	ErrUnknownPolicy = errors.New("unknown decision policy")
	// ErrUnimplemented is returned by Decide for reserved policy kinds.
	ErrUnimplemented = errors.New("decision policy not implemented")
)

// Kind identifies a decision policy.
type Kind uint8

const (
	UtilityMax        Kind = iota + 1 // Migrate when utility with a migrant is higher
	PushThreshold                     // Migrate when insecure, else as UtilityMax
	TPB                               // Theory of planned behaviour (reserved)
	PMT                               // Protection motivation theory (reserved)
	MobilityPotential                 // Mobility potential (reserved)
)

var kindNames = map[Kind]string{
	UtilityMax:        "utility",
	PushThreshold:     "push_threshold",
	TPB:               "tpb",
	PMT:               "pmt",
	MobilityPotential: "mobility_potential",
}

// String returns the configuration name of the policy.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Implemented reports whether Decide produces an outcome for k.
func (k Kind) Implemented() bool {
	return k == UtilityMax || k == PushThreshold
}

// Parse maps a configuration name to a policy kind.
func Parse(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// State is the household utility state a policy reads.
type State struct {
	TotalUtility       float64
	UtilityWithMigrant float64
	Secure             bool
}

// Decide returns whether a household in state s sends its migrant.
func Decide(k Kind, s State) (bool, error) {
	switch k {
	case UtilityMax:
		return s.TotalUtility < s.UtilityWithMigrant, nil
	case PushThreshold:
		if !s.Secure {
			return true, nil
		}
		return s.TotalUtility < s.UtilityWithMigrant, nil
	case TPB, PMT, MobilityPotential:
		return false, fmt.Errorf("%w: %s", ErrUnimplemented, k)
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownPolicy, k)
	}
}
