package service

import (
	"context"

	"github.com/pvs1-classifier/internal/domain"
)

// fakeAnnotationClient is an in-memory stand-in for domain.AnnotationClient,
// letting predicate and engine tests script exact upstream responses instead
// of reaching the network.
type fakeAnnotationClient struct {
	variantInfo          *domain.VariantAnnotation
	variantInfoErr       error
	rangeResults         []domain.VariantAnnotation
	rangeErr             error
	variantTranscripts   []domain.TranscriptDescription
	geneTranscripts      []domain.TranscriptDescription
	transcriptsErr       error
	lastRangeStart       int64
	lastRangeEnd         int64
}

func (f *fakeAnnotationClient) VariantInfo(ctx context.Context, variant *domain.SequenceVariant) (*domain.VariantAnnotation, error) {
	return f.variantInfo, f.variantInfoErr
}

func (f *fakeAnnotationClient) VariantsInRange(ctx context.Context, variant *domain.SequenceVariant, start, end int64) ([]domain.VariantAnnotation, error) {
	f.lastRangeStart, f.lastRangeEnd = start, end
	return f.rangeResults, f.rangeErr
}

func (f *fakeAnnotationClient) TranscriptsForVariant(ctx context.Context, variant *domain.SequenceVariant) ([]domain.TranscriptDescription, []domain.TranscriptDescription, error) {
	return f.variantTranscripts, f.geneTranscripts, f.transcriptsErr
}

var _ domain.AnnotationClient = (*fakeAnnotationClient)(nil)

// fakeSplicingPredictor is an in-memory stand-in for domain.SplicingPredictor.
type fakeSplicingPredictor struct {
	spliceType   domain.SpliceType
	sequence     string
	sequenceErr  error
	sites        []domain.CrypticSite
	sitesErr     error
}

func (f *fakeSplicingPredictor) ReferenceSequence(ctx context.Context, assembly domain.Assembly, chromosome string, start, end int64) (string, error) {
	return f.sequence, f.sequenceErr
}

func (f *fakeSplicingPredictor) DetermineSpliceType(consequences []string) domain.SpliceType {
	return f.spliceType
}

func (f *fakeSplicingPredictor) CrypticSites(ctx context.Context, referenceWindow string, windowStart int64, spliceType domain.SpliceType) ([]domain.CrypticSite, error) {
	return f.sites, f.sitesErr
}

var _ domain.SplicingPredictor = (*fakeSplicingPredictor)(nil)

// fakeNormalizer is an in-memory stand-in for domain.RemoteNormalizer.
type fakeNormalizer struct {
	variant *domain.SequenceVariant
	err     error
	called  bool
	input   string
}

func (f *fakeNormalizer) Normalize(ctx context.Context, input string, defaultAssembly domain.Assembly) (*domain.SequenceVariant, error) {
	f.called = true
	f.input = input
	return f.variant, f.err
}

var _ domain.RemoteNormalizer = (*fakeNormalizer)(nil)

func pathogenicRecord() domain.VariantAnnotation {
	return domain.VariantAnnotation{
		ClinVar: &domain.ClinVarAnnotation{
			Records: []domain.ClinVarRecord{
				{Classifications: domain.ClinVarClassifications{
					GermlineClassification: &domain.GermlineClassification{Description: "Pathogenic"},
				}},
			},
		},
	}
}

func benignRecord() domain.VariantAnnotation {
	return domain.VariantAnnotation{
		ClinVar: &domain.ClinVarAnnotation{
			Records: []domain.ClinVarRecord{
				{Classifications: domain.ClinVarClassifications{
					GermlineClassification: &domain.GermlineClassification{Description: "Benign"},
				}},
			},
		},
	}
}

func lofRecord(afPopmax *float64) domain.VariantAnnotation {
	return domain.VariantAnnotation{
		GnomadGenomes: &domain.GnomadAnnotation{
			AlleleCounts: []domain.GnomadAlleleCount{{AFPopmax: afPopmax}},
			Vep:          []domain.GnomadVepEntry{{Consequence: "stop_gained"}},
		},
	}
}

func floatPtr(f float64) *float64 { return &f }
