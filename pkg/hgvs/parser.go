package hgvs

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pvs1-classifier/internal/domain"
)

// ErrNeedsRemoteResolution is returned by Parser.ParseVariant when the
// input is recognizable HGVS but resolving it to genomic coordinates
// requires a transcript-to-genome mapping or allele handling this local
// parser doesn't have (coding/protein notation, and every genomic
// deletion/insertion/duplication/inversion, with or without explicit
// alleles). HTTPNormalizer.Normalize, the parser's caller in this module,
// wraps it in a ParseError.
var ErrNeedsRemoteResolution = errors.New("hgvs: variant requires remote transcript resolution")

// Supported HGVS patterns, by notation type.
var (
	genomicSubstitutionPattern = regexp.MustCompile(`^(?i)(NC_\d+\.\d+|chr(?:[1-9]|1[0-9]|2[0-2]|X|Y|M|MT)):g\.(\d+)([ACGT]+)>([ACGT]+)$`)
	genomicDeletionPattern     = regexp.MustCompile(`^(?i)(NC_\d+\.\d+|chr(?:[1-9]|1[0-9]|2[0-2]|X|Y|M|MT)):g\.(\d+)(_(\d+))?del([ACGT]*)$`)
	genomicInsertionPattern    = regexp.MustCompile(`^(?i)(NC_\d+\.\d+|chr(?:[1-9]|1[0-9]|2[0-2]|X|Y|M|MT)):g\.(\d+)(_(\d+))?ins([ACGT]+)$`)
	genomicDuplicationPattern  = regexp.MustCompile(`^(?i)(NC_\d+\.\d+|chr(?:[1-9]|1[0-9]|2[0-2]|X|Y|M|MT)):g\.(\d+)(_(\d+))?dup([ACGT]*)$`)
	genomicInversionPattern    = regexp.MustCompile(`^(?i)(NC_\d+\.\d+|chr(?:[1-9]|1[0-9]|2[0-2]|X|Y|M|MT)):g\.(\d+)_(\d+)inv$`)

	codingNotationPattern  = regexp.MustCompile(`^(NM_\d+\.\d+):c\.`)
	proteinNotationPattern = regexp.MustCompile(`^(NP_\d+\.\d+):p\.`)
)

// Parser parses HGVS notation into a canonical domain.SequenceVariant where
// that is possible without a network round trip, and reports
// ErrNeedsRemoteResolution otherwise.
type Parser struct {
	validator *Validator
}

// NewParser creates a new HGVS parser.
func NewParser() *Parser {
	return &Parser{validator: NewValidator()}
}

// ParseVariant parses HGVS notation and, for genomic substitutions,
// resolves it directly to a *domain.SequenceVariant. Any other recognized
// HGVS form (coding, protein, deletion/insertion/duplication/inversion)
// returns ErrNeedsRemoteResolution so the caller can fall back to a
// networked normalizer.
func (p *Parser) ParseVariant(input string) (*domain.SequenceVariant, error) {
	hgvs := strings.TrimSpace(input)
	if hgvs == "" {
		return nil, fmt.Errorf("parsing variant: %w", newValidationError("hgvs", "HGVS notation cannot be empty", input))
	}

	if matches := genomicSubstitutionPattern.FindStringSubmatch(hgvs); matches != nil {
		return p.buildGenomicVariant(matches[1], matches[2], matches[3], matches[4], hgvs)
	}

	switch {
	case genomicDeletionPattern.MatchString(hgvs),
		genomicInsertionPattern.MatchString(hgvs),
		genomicDuplicationPattern.MatchString(hgvs),
		genomicInversionPattern.MatchString(hgvs),
		codingNotationPattern.MatchString(hgvs),
		proteinNotationPattern.MatchString(hgvs):
		return nil, ErrNeedsRemoteResolution
	}

	return nil, fmt.Errorf("parsing variant %q: %w", input, newValidationError("hgvs", "unrecognized HGVS notation format", hgvs))
}

func (p *Parser) buildGenomicVariant(reference, positionStr, ref, alt, display string) (*domain.SequenceVariant, error) {
	position, err := strconv.ParseInt(positionStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing position %q: %w", positionStr, err)
	}

	assembly, chromosome, ok := p.resolveReference(reference)
	if !ok {
		return nil, domain.NewParseError(display, fmt.Errorf("unrecognized reference sequence %q", reference))
	}

	variant, err := domain.NewSequenceVariant(assembly, chromosome, position, strings.ToUpper(ref), strings.ToUpper(alt), display)
	if err != nil {
		return nil, err
	}
	return variant, nil
}

// resolveReference maps an HGVS reference token (NC_ accession or chrN) to
// an (assembly, chromosome) pair. chrN tokens carry no assembly of their
// own; GRCh38 is assumed, matching the resolver's default-assembly
// convention for assembly-less input (spec §4.1).
func (p *Parser) resolveReference(reference string) (domain.Assembly, string, bool) {
	if strings.HasPrefix(strings.ToUpper(reference), "NC_") {
		assembly, chromosome, ok := domain.ResolveRefSeqAccession(reference)
		return assembly, chromosome, ok
	}
	chromosome := domain.NormalizeChromosome(reference)
	if chromosome == "" {
		return "", "", false
	}
	return domain.GRCh38, chromosome, true
}

// ValidateHGVS validates HGVS notation format.
func (p *Parser) ValidateHGVS(hgvs string) error {
	return p.validator.ValidateHGVS(hgvs)
}
