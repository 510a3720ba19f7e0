package hgvs

import (
	"regexp"
	"strings"
)

// Enhanced gene validation patterns.
var (
	standardGenePattern     = regexp.MustCompile(`^[A-Z][A-Z0-9-]*[A-Z0-9]$`)
	singleLetterGenePattern = regexp.MustCompile(`^[A-Z]$`)
	complexGenePattern      = regexp.MustCompile(`^[A-Z][A-Z0-9-]*[A-Z0-9](P\d+|AS\d+|DT|IT\d+|NB)?$`)

	refSeqTranscriptPattern  = regexp.MustCompile(`^(NM_|NR_|XM_|XR_)\d+\.\d+$`)
	ensemblTranscriptPattern = regexp.MustCompile(`^ENST\d{11}\.\d+$`)

	entrezGeneIDPattern  = regexp.MustCompile(`^\d+$`)
	ensemblGeneIDPattern = regexp.MustCompile(`^ENSG\d{11}\.\d+$`)
	hgncIDPattern        = regexp.MustCompile(`^HGNC:\d+$`)
)

// GeneValidator provides enhanced gene symbol and transcript validation:
// HUGO-style gene symbols, RefSeq/Ensembl transcript accessions, and
// Entrez/Ensembl/HGNC gene identifiers.
type GeneValidator struct {
	knownGenes       map[string]bool
	knownTranscripts map[string]bool
}

// NewGeneValidator creates a new gene validator.
func NewGeneValidator() *GeneValidator {
	return &GeneValidator{
		knownGenes:       make(map[string]bool),
		knownTranscripts: make(map[string]bool),
	}
}

// ValidateGeneSymbol validates gene symbols according to HUGO standards.
func (gv *GeneValidator) ValidateGeneSymbol(symbol string) error {
	if symbol == "" {
		return nil
	}

	original := symbol
	symbol = strings.TrimSpace(symbol)

	if symbol != strings.ToUpper(symbol) {
		return newValidationError("gene_symbol", "gene symbol must be uppercase per HUGO standards", original)
	}
	if !gv.isValidGeneFormat(symbol) {
		return newValidationError("gene_symbol", "gene symbol must follow HUGO nomenclature (uppercase letters, numbers, hyphens)", original)
	}
	return gv.validateGeneNamingRules(symbol)
}

// ValidateTranscript validates transcript IDs from RefSeq or Ensembl.
func (gv *GeneValidator) ValidateTranscript(transcript string) error {
	if transcript == "" {
		return nil
	}
	transcript = strings.TrimSpace(transcript)

	switch {
	case refSeqTranscriptPattern.MatchString(transcript):
		return nil
	case ensemblTranscriptPattern.MatchString(transcript):
		return nil
	default:
		return newValidationError("transcript", "transcript ID must be a valid RefSeq (NM_/NR_/XM_/XR_) or Ensembl (ENST) identifier", transcript)
	}
}

// ValidateGeneID validates Entrez, Ensembl, or HGNC gene identifiers.
func (gv *GeneValidator) ValidateGeneID(geneID string) error {
	if geneID == "" {
		return nil
	}
	geneID = strings.TrimSpace(geneID)

	switch {
	case entrezGeneIDPattern.MatchString(geneID), ensemblGeneIDPattern.MatchString(geneID), hgncIDPattern.MatchString(geneID):
		return nil
	default:
		return newValidationError("gene_id", "gene ID must be a valid Entrez, Ensembl (ENSG), or HGNC identifier", geneID)
	}
}

// ValidateGeneTranscriptPair checks gene symbol and transcript format
// consistency; it does not verify the transcript actually belongs to the
// gene (that requires the annotation client, out of scope here).
func (gv *GeneValidator) ValidateGeneTranscriptPair(geneSymbol, transcript string) error {
	if geneSymbol == "" || transcript == "" {
		return nil
	}
	if err := gv.ValidateGeneSymbol(geneSymbol); err != nil {
		return err
	}
	return gv.ValidateTranscript(transcript)
}

func (gv *GeneValidator) isValidGeneFormat(symbol string) bool {
	return singleLetterGenePattern.MatchString(symbol) ||
		standardGenePattern.MatchString(symbol) ||
		complexGenePattern.MatchString(symbol)
}

func (gv *GeneValidator) validateGeneNamingRules(symbol string) error {
	if len(symbol) > 0 && symbol[0] >= '0' && symbol[0] <= '9' {
		return newValidationError("gene_symbol", "gene symbol cannot start with a number", symbol)
	}
	if strings.HasSuffix(symbol, "-") {
		return newValidationError("gene_symbol", "gene symbol cannot end with a hyphen", symbol)
	}
	if strings.Contains(symbol, "--") {
		return newValidationError("gene_symbol", "gene symbol cannot contain consecutive hyphens", symbol)
	}
	if len(symbol) > 15 {
		return newValidationError("gene_symbol", "gene symbol should not exceed 15 characters", symbol)
	}
	return nil
}

// AddKnownGene records a gene symbol as known, for IsKnownGene lookups.
func (gv *GeneValidator) AddKnownGene(symbol string) {
	gv.knownGenes[strings.ToUpper(symbol)] = true
}

// AddKnownTranscript records a transcript accession as known.
func (gv *GeneValidator) AddKnownTranscript(transcript string) {
	gv.knownTranscripts[transcript] = true
}

// IsKnownGene reports whether symbol was previously registered via AddKnownGene.
func (gv *GeneValidator) IsKnownGene(symbol string) bool {
	return gv.knownGenes[strings.ToUpper(symbol)]
}

// IsKnownTranscript reports whether transcript was previously registered via
// AddKnownTranscript.
func (gv *GeneValidator) IsKnownTranscript(transcript string) bool {
	return gv.knownTranscripts[transcript]
}
