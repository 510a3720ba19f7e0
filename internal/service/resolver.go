// Package service implements the PVS1 decision engine (C8), its helper
// predicates (C7), the transcript selector (C4), the consequence classifier
// wrapper (C5), and the sequence variant resolver (C2) — the components that
// sit on top of the domain types and the external collaborators.
package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/pvs1-classifier/internal/domain"
)

var (
	gnomadVariantPattern = regexp.MustCompile(`(?i)^((?P<asm>\w+)-)?(?P<chr>(chr)?([1-9]|1[0-9]|2[0-2]|X|Y|M|MT))-(?P<pos>\d+)-(?P<ref>[ACGT]+)-(?P<alt>[ACGT]+)$`)
	canonicalSPDIPattern = regexp.MustCompile(`(?i)^(?P<seq>NC_\d{6}\.\d+):(?P<pos>\d+):(?P<ref>[ACGT]+):(?P<alt>[ACGT]+)$`)
	relaxedSPDIPattern   = regexp.MustCompile(`(?i)^((?P<asm>\w+):)?(?P<chr>(chr)?([1-9]|1[0-9]|2[0-2]|X|Y|M|MT)):(?P<pos>\d+):(?P<ref>[ACGT]+):(?P<alt>[ACGT]+)$`)
)

// VariantResolver implements C2: normalizes heterogeneous variant
// representations (gnomAD-style, canonical SPDI, relaxed SPDI, or — via the
// remote collaborator — dbSNP rs#/HGVS/ClinVar accessions) into a canonical
// domain.SequenceVariant.
//
// Each local parser attempt is a pure function; per the Design Note in
// spec §9, a structural mismatch reports a ParseError and the resolver
// falls through to the next attempt, while any other error (an invariant
// violation once a grammar did match) propagates immediately.
type VariantResolver struct {
	normalizer domain.RemoteNormalizer
}

// NewVariantResolver builds a resolver. normalizer may be nil, in which case
// inputs matching none of the three local grammars fail with ParseError
// instead of falling back to remote normalization.
func NewVariantResolver(normalizer domain.RemoteNormalizer) *VariantResolver {
	return &VariantResolver{normalizer: normalizer}
}

// Resolve parses input into a canonical SequenceVariant, trying the local
// grammars in spec order before falling back to the remote normalizer.
func (r *VariantResolver) Resolve(ctx context.Context, input string, defaultAssembly domain.Assembly) (*domain.SequenceVariant, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, domain.NewParseError(input, errors.New("empty input"))
	}

	attempts := []func(string, domain.Assembly) (*domain.SequenceVariant, error){
		parseGnomADStyle,
		parseCanonicalSPDI,
		parseRelaxedSPDI,
	}

	var lastErr error
	for _, attempt := range attempts {
		variant, err := attempt(trimmed, defaultAssembly)
		if err == nil {
			return variant, nil
		}
		if !isParseError(err) {
			return nil, err
		}
		lastErr = err
	}

	if r.normalizer == nil {
		return nil, lastErr
	}
	variant, err := r.normalizer.Normalize(ctx, trimmed, defaultAssembly)
	if err != nil {
		return nil, domain.NewParseError(trimmed, err)
	}
	return variant, nil
}

func isParseError(err error) bool {
	return errors.Is(err, domain.NewParseError("", nil))
}

func parseGnomADStyle(input string, defaultAssembly domain.Assembly) (*domain.SequenceVariant, error) {
	groups := namedGroups(gnomadVariantPattern, input)
	if groups == nil {
		return nil, domain.NewParseError(input, errors.New("does not match gnomAD-style grammar"))
	}
	return buildFromGroups(input, groups, defaultAssembly)
}

func parseCanonicalSPDI(input string, defaultAssembly domain.Assembly) (*domain.SequenceVariant, error) {
	groups := namedGroups(canonicalSPDIPattern, input)
	if groups == nil {
		return nil, domain.NewParseError(input, errors.New("does not match canonical SPDI grammar"))
	}
	assembly, chromosome, ok := domain.ResolveRefSeqAccession(groups["seq"])
	if !ok {
		return nil, domain.NewParseError(input, errors.New("unrecognized RefSeq accession "+groups["seq"]))
	}
	position, err := strconv.ParseInt(groups["pos"], 10, 64)
	if err != nil {
		return nil, domain.NewInvalidPositionError("position %q is not a valid integer", groups["pos"])
	}
	return domain.NewSequenceVariant(assembly, chromosome, position, strings.ToUpper(groups["ref"]), strings.ToUpper(groups["alt"]), input)
}

func parseRelaxedSPDI(input string, defaultAssembly domain.Assembly) (*domain.SequenceVariant, error) {
	groups := namedGroups(relaxedSPDIPattern, input)
	if groups == nil {
		return nil, domain.NewParseError(input, errors.New("does not match relaxed SPDI grammar"))
	}
	return buildFromGroups(input, groups, defaultAssembly)
}

func buildFromGroups(input string, groups map[string]string, defaultAssembly domain.Assembly) (*domain.SequenceVariant, error) {
	assembly := resolveAssemblyToken(groups["asm"], defaultAssembly)
	position, err := strconv.ParseInt(groups["pos"], 10, 64)
	if err != nil {
		return nil, domain.NewInvalidPositionError("position %q is not a valid integer", groups["pos"])
	}
	return domain.NewSequenceVariant(assembly, groups["chr"], position, strings.ToUpper(groups["ref"]), strings.ToUpper(groups["alt"]), input)
}

func resolveAssemblyToken(token string, defaultAssembly domain.Assembly) domain.Assembly {
	switch strings.ToUpper(token) {
	case "GRCH37", "HG19":
		return domain.GRCh37
	case "GRCH38", "HG38":
		return domain.GRCh38
	default:
		return defaultAssembly
	}
}

// namedGroups matches pattern against input and returns its named capture
// groups, or nil if the pattern does not match at all.
func namedGroups(pattern *regexp.Regexp, input string) map[string]string {
	m := pattern.FindStringSubmatch(input)
	if m == nil {
		return nil
	}
	groups := make(map[string]string, len(m))
	for i, name := range pattern.SubexpNames() {
		if name == "" {
			continue
		}
		groups[name] = m[i]
	}
	return groups
}
