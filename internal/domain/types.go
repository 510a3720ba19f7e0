// Package domain contains the core business entities and types for PVS1
// ("Pathogenic Very Strong #1") sequence-variant classification, following
// the ACMG/AMP 2015 guidelines for sequence variant interpretation.
//
// Reference: Richards et al. (2015) Standards and guidelines for the
// interpretation of sequence variants. Genet Med. 17(5):405-24.
// Reference: Abou Tayoun et al. (2018) Recommendations for interpreting the
// loss of function PVS1 ACMG/AMP variant criterion. Hum Mutat. 39(11):1517-1524.
package domain

import (
	"errors"
	"fmt"
)

// Assembly identifies the human reference genome build a variant's
// coordinates are expressed against.
type Assembly string

const (
	GRCh37 Assembly = "GRCh37"
	GRCh38 Assembly = "GRCh38"
)

// IsValid reports whether the assembly is one of the two supported builds.
func (a Assembly) IsValid() bool {
	switch a {
	case GRCh37, GRCh38:
		return true
	default:
		return false
	}
}

func (a Assembly) String() string {
	return string(a)
}

// Strand is the transcription direction of a transcript.
type Strand string

const (
	Plus  Strand = "Plus"
	Minus Strand = "Minus"
)

func (s Strand) IsValid() bool {
	switch s {
	case Plus, Minus:
		return true
	default:
		return false
	}
}

// ConsequenceCategory is one of the four buckets the PVS1 decision tree
// branches on, plus NotSetCategory for anything the lookup table does not
// cover (spec §3, §4.4).
type ConsequenceCategory string

const (
	NonsenseFrameshift ConsequenceCategory = "NonsenseFrameshift"
	SpliceSites        ConsequenceCategory = "SpliceSites"
	InitiationCodon    ConsequenceCategory = "InitiationCodon"
	Missense           ConsequenceCategory = "Missense"
	NotSetCategory     ConsequenceCategory = "NotSet"
)

// categoryPriority orders categories for the "highest-priority category
// present" rule in spec §4.4: NonsenseFrameshift > SpliceSites >
// InitiationCodon > Missense.
var categoryPriority = map[ConsequenceCategory]int{
	NonsenseFrameshift: 0,
	SpliceSites:        1,
	InitiationCodon:    2,
	Missense:           3,
}

// HigherPriority reports whether category a outranks category b under the
// fixed priority order of spec §4.4 (lower index wins).
func HigherPriority(a, b ConsequenceCategory) bool {
	return categoryPriority[a] < categoryPriority[b]
}

// VerdictLevel is the graded PVS1 outcome the engine emits.
type VerdictLevel string

const (
	LevelPVS1                   VerdictLevel = "PVS1"
	LevelPVS1Strong             VerdictLevel = "PVS1_Strong"
	LevelPVS1Moderate           VerdictLevel = "PVS1_Moderate"
	LevelPVS1Supporting         VerdictLevel = "PVS1_Supporting"
	LevelNotPVS1                VerdictLevel = "NotPVS1"
	LevelUnsupportedConsequence VerdictLevel = "UnsupportedConsequence"
	LevelNotSet                 VerdictLevel = "NotSet"
)

func (l VerdictLevel) String() string {
	return string(l)
}

// PathLabel names the leaf of the decision tree that produced a verdict
// (spec §4.7): NF1..NF6 and PTEN for NonsenseFrameshift, SS1..SS10 for
// SpliceSites, IC1..IC3 for InitiationCodon, NotSet otherwise.
type PathLabel string

const (
	PathPTEN  PathLabel = "PTEN"
	PathNF1   PathLabel = "NF1"
	PathNF2   PathLabel = "NF2"
	PathNF3   PathLabel = "NF3"
	PathNF4   PathLabel = "NF4"
	PathNF5   PathLabel = "NF5"
	PathNF6   PathLabel = "NF6"
	PathSS1   PathLabel = "SS1"
	PathSS2   PathLabel = "SS2"
	PathSS3   PathLabel = "SS3"
	PathSS4   PathLabel = "SS4"
	PathSS5   PathLabel = "SS5"
	PathSS6   PathLabel = "SS6"
	PathSS7   PathLabel = "SS7"
	PathSS8   PathLabel = "SS8"
	PathSS9   PathLabel = "SS9"
	PathSS10  PathLabel = "SS10"
	PathIC1   PathLabel = "IC1"
	PathIC2   PathLabel = "IC2"
	PathIC3   PathLabel = "IC3"
	PathNotSet PathLabel = "NotSet"
)

func (p PathLabel) String() string {
	return string(p)
}

// GJB2HGNCID and PTENHGNCID are the two gene-specific overrides the decision
// tree hard-codes (spec §4.6, §4.7).
const (
	GJB2HGNCID = "HGNC:4284"
	PTENHGNCID = "HGNC:9588"
)

// RuleStrength represents the strength of an ACMG/AMP evidence rule, kept
// from the umbrella orchestrator's vocabulary so a Verdict can be adapted
// into that shape (AsACMGRule).
type RuleStrength string

const (
	VeryStrong RuleStrength = "VERY_STRONG"
	Strong     RuleStrength = "STRONG"
	Moderate   RuleStrength = "MODERATE"
	Supporting RuleStrength = "SUPPORTING"
)

func (rs RuleStrength) IsValid() bool {
	switch rs {
	case VeryStrong, Strong, Moderate, Supporting:
		return true
	default:
		return false
	}
}

// RuleCategory represents whether an ACMG/AMP rule argues for or against
// pathogenicity.
type RuleCategory string

const (
	PathogenicRule RuleCategory = "PATHOGENIC"
	BenignRule     RuleCategory = "BENIGN"
)

func (rc RuleCategory) IsValid() bool {
	switch rc {
	case PathogenicRule, BenignRule:
		return true
	default:
		return false
	}
}

// ACMGRule is the umbrella orchestrator's evidence-rule shape. This module
// never evaluates the umbrella rule set itself; AsACMGRule converts a PVS1
// Verdict into this shape so it can be dropped into that larger pipeline.
type ACMGRule struct {
	Code     string       `json:"code"`
	Category RuleCategory `json:"category"`
	Strength RuleStrength `json:"strength"`
	Applied  bool         `json:"applied"`
	Evidence string       `json:"evidence,omitempty"`
}

// Validate ensures the rule is internally consistent.
func (r *ACMGRule) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("ACMG rule validation: %w", errors.New("rule code is required"))
	}
	if !r.Category.IsValid() {
		return fmt.Errorf("ACMG rule validation: invalid category %s", r.Category)
	}
	if r.Applied && !r.Strength.IsValid() {
		return fmt.Errorf("ACMG rule validation: invalid strength %s", r.Strength)
	}
	return nil
}

// validateAlleleString reports whether s is non-empty and drawn from {A,C,G,T}.
func validateAlleleString(s string) error {
	if s == "" {
		return fmt.Errorf("allele string must be non-empty")
	}
	for _, r := range s {
		switch r {
		case 'A', 'C', 'G', 'T':
		default:
			return fmt.Errorf("allele string %q contains non-ACGT character %q", s, r)
		}
	}
	return nil
}
