package domain

import "context"

// AnnotationClient is the C3 contract: fetch per-variant and per-range
// annotations, and fetch transcript descriptions. Transport is out of
// scope for this module — only the contract and a reference HTTP-backed
// implementation are required (pkg/external.AnnotationHTTPClient).
//
// Failures surface as InvalidAPIResponse (unparseable body, missing
// expected field) or ConnectionError (transport). Missing ClinVar or
// gnomAD sub-fields are "no data", not an error.
type AnnotationClient interface {
	// VariantInfo fetches the ClinVar record, gnomAD allele counts/VEP
	// consequences, and dbNSFP protein-HGVS strings for a single variant.
	VariantInfo(ctx context.Context, variant *SequenceVariant) (*VariantAnnotation, error)

	// VariantsInRange fetches every annotated variant overlapping
	// [start, end] on the same contig and assembly as variant.
	VariantsInRange(ctx context.Context, variant *SequenceVariant, start, end int64) ([]VariantAnnotation, error)

	// TranscriptsForVariant fetches one record per overlapping transcript
	// (variantTranscripts) plus the full gene-transcript geometry
	// (geneTranscripts) the transcript selector (C4) picks from.
	TranscriptsForVariant(ctx context.Context, variant *SequenceVariant) (variantTranscripts, geneTranscripts []TranscriptDescription, err error)
}

// SpliceType is the result of determine_splice_type (C6).
type SpliceType string

const (
	SpliceDonor    SpliceType = "Donor"
	SpliceAcceptor SpliceType = "Acceptor"
	SpliceUnknown  SpliceType = "Unknown"
)

// CrypticSite is one candidate cryptic splice site returned by C6's
// cryptic_sites operation, sorted descending by MaxEntropyScore.
type CrypticSite struct {
	Position       int64
	Context        string
	MaxEntropyScore float64
}

// SplicingPredictor is the C6 contract: provide reference sequence and
// cryptic splice-site candidates. Splice-impact-from-first-principles is a
// Non-goal for this module's own code — only the contract plus a reference
// implementation (pkg/external.SplicingHTTPClient) are required.
type SplicingPredictor interface {
	// ReferenceSequence returns the reference nucleotides for the
	// half-open interval [start, end).
	ReferenceSequence(ctx context.Context, assembly Assembly, chromosome string, start, end int64) (string, error)

	// DetermineSpliceType classifies a consequence list as Donor, Acceptor,
	// or Unknown.
	DetermineSpliceType(consequences []string) SpliceType

	// CrypticSites scores candidate cryptic splice sites in referenceWindow
	// by a maximum-entropy model, returning only sites exceeding the
	// model's internal threshold, sorted descending by score.
	CrypticSites(ctx context.Context, referenceWindow string, windowStart int64, spliceType SpliceType) ([]CrypticSite, error)
}

// RemoteNormalizer is the C2 fallback collaborator: converts free-form
// variant representations (dbSNP rs#, HGVS c./p., ClinVar VCV/RCV) to a
// canonical SPDI-like record when none of the resolver's structured parser
// attempts match (spec §4.1).
type RemoteNormalizer interface {
	Normalize(ctx context.Context, input string, defaultAssembly Assembly) (*SequenceVariant, error)
}
