package domain

import "strings"

// Verdict is the engine's graded PVS1 outcome: the level, the decision-tree
// leaf that produced it, and an accumulated human-readable rationale.
type Verdict struct {
	Level     VerdictLevel
	Path      PathLabel
	Rationale string
}

// NewVerdict builds a Verdict, joining the given rationale sentences with
// " => " exactly as the decision tree's commentary accumulates (spec §4.7).
func NewVerdict(level VerdictLevel, path PathLabel, sentences ...string) Verdict {
	return Verdict{
		Level:     level,
		Path:      path,
		Rationale: strings.Join(sentences, " => "),
	}
}

// Unsupported is the fixed verdict emitted when the consequence category is
// Missense, NotSet, or otherwise unhandled by the decision tree (spec §4.7).
func Unsupported(reason string) Verdict {
	return NewVerdict(LevelUnsupportedConsequence, PathNotSet, reason)
}

// AsACMGRule converts a PVS1 Verdict into the umbrella orchestrator's
// ACMGRule shape, so this module's output can be dropped into that larger
// evidence-combination pipeline without this module needing to implement it.
func AsACMGRule(v Verdict) ACMGRule {
	rule := ACMGRule{
		Code:     "PVS1",
		Category: PathogenicRule,
		Evidence: v.Rationale,
	}
	switch v.Level {
	case LevelPVS1:
		rule.Applied = true
		rule.Strength = VeryStrong
	case LevelPVS1Strong:
		rule.Applied = true
		rule.Strength = Strong
	case LevelPVS1Moderate:
		rule.Applied = true
		rule.Strength = Moderate
	case LevelPVS1Supporting:
		rule.Applied = true
		rule.Strength = Supporting
	default:
		rule.Applied = false
	}
	return rule
}
