// Package hgvs provides HGVS notation parsing and validation used by the
// sequence variant resolver's remote-normalization fallback (C2, spec
// §4.1, §6): dbSNP rs#, HGVS c./p., and ClinVar VCV/RCV inputs the
// resolver's structured grammars (gnomAD-style, SPDI) don't match.
package hgvs

import (
	"fmt"
	"regexp"
	"strings"
)

// HGVS notation patterns for validation.
var (
	// Genomic HGVS pattern: NC_000017.11:g.43104261G>T
	genomicPattern = regexp.MustCompile(`^(NC_\d+\.\d+|chr\d+|chr[XY]):g\.(\d+)([ATCG]+)>([ATCG]+)$`)

	// Coding HGVS pattern: NM_000059.3:c.274G>T
	codingPattern = regexp.MustCompile(`^(NM_\d+\.\d+):c\.(\d+)([ATCG]+)>([ATCG]+)$`)

	// Protein HGVS pattern: NP_000050.2:p.Gly92Cys
	proteinPattern = regexp.MustCompile(`^(NP_\d+\.\d+):p\.([A-Z][a-z]{2})(\d+)([A-Z][a-z]{2})$`)

	// Gene symbol pattern.
	geneSymbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9-]*$`)

	// Transcript ID pattern.
	transcriptPattern = regexp.MustCompile(`^(NM_|NR_|XM_|XR_)\d+\.\d+$`)
)

// ValidationError reports a malformed HGVS notation or ancillary field
// (gene symbol, transcript ID) the validator rejected.
type ValidationError struct {
	Field   string
	Message string
	Value   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
}

func newValidationError(field, message, value string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// Validator provides HGVS validation functionality.
type Validator struct{}

// NewValidator creates a new HGVS validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateHGVS validates HGVS notation format.
func (v *Validator) ValidateHGVS(hgvs string) error {
	if hgvs == "" {
		return newValidationError("hgvs", "HGVS notation cannot be empty", hgvs)
	}

	hgvs = strings.TrimSpace(hgvs)

	switch {
	case strings.Contains(hgvs, ":g."):
		if !genomicPattern.MatchString(hgvs) {
			return newValidationError("hgvs", "invalid genomic HGVS notation format", hgvs)
		}
		return nil
	case strings.Contains(hgvs, ":c."):
		if !codingPattern.MatchString(hgvs) {
			return newValidationError("hgvs", "invalid coding HGVS notation format", hgvs)
		}
		return nil
	case strings.Contains(hgvs, ":p."):
		if !proteinPattern.MatchString(hgvs) {
			return newValidationError("hgvs", "invalid protein HGVS notation format", hgvs)
		}
		return nil
	default:
		return newValidationError("hgvs", "unrecognized HGVS notation format", hgvs)
	}
}

// ValidateGeneSymbol validates gene symbol format.
func (v *Validator) ValidateGeneSymbol(symbol string) error {
	if symbol == "" {
		return nil
	}
	if !geneSymbolPattern.MatchString(symbol) {
		return newValidationError("gene_symbol", "invalid gene symbol format", symbol)
	}
	return nil
}

// ValidateTranscript validates transcript ID format.
func (v *Validator) ValidateTranscript(transcript string) error {
	if transcript == "" {
		return nil
	}
	if !transcriptPattern.MatchString(transcript) {
		return newValidationError("transcript", "invalid transcript ID format", transcript)
	}
	return nil
}

// ParseHGVSComponents extracts components from HGVS notation.
func (v *Validator) ParseHGVSComponents(hgvs string) (*HGVSComponents, error) {
	if err := v.ValidateHGVS(hgvs); err != nil {
		return nil, err
	}

	components := &HGVSComponents{Original: hgvs}

	if matches := genomicPattern.FindStringSubmatch(hgvs); matches != nil {
		components.Type = "genomic"
		components.Reference = matches[1]
		components.Position = matches[2]
		components.RefAllele = matches[3]
		components.AltAllele = matches[4]
		return components, nil
	}

	if matches := codingPattern.FindStringSubmatch(hgvs); matches != nil {
		components.Type = "coding"
		components.Reference = matches[1]
		components.Position = matches[2]
		components.RefAllele = matches[3]
		components.AltAllele = matches[4]
		return components, nil
	}

	if matches := proteinPattern.FindStringSubmatch(hgvs); matches != nil {
		components.Type = "protein"
		components.Reference = matches[1]
		components.Position = matches[3]
		components.RefAllele = matches[2]
		components.AltAllele = matches[4]
		return components, nil
	}

	return nil, fmt.Errorf("unable to parse HGVS notation: %s", hgvs)
}

// HGVSComponents represents parsed HGVS notation components.
type HGVSComponents struct {
	Original  string
	Type      string // genomic, coding, protein
	Reference string // NC_000017.11, NM_000059.3, etc.
	Position  string
	RefAllele string
	AltAllele string
}
