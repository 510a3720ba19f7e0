package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pvs1-classifier/internal/domain"
)

// Engine implements C8: the PVS1 decision tree dispatcher. It holds the
// annotation and splicing collaborators; each ClassifyPVS1 call receives
// its transcript selection as an argument and builds its own predicates
// and rationale buffer.
type Engine struct {
	annotation domain.AnnotationClient
	splicing   domain.SplicingPredictor
}

// NewEngine builds an Engine bound to the C3/C6 collaborators every
// classification run will use.
func NewEngine(annotation domain.AnnotationClient, splicing domain.SplicingPredictor) *Engine {
	return &Engine{annotation: annotation, splicing: splicing}
}

// ClassifyPVS1 runs the decision tree of spec §4.7 against one resolved
// variant and transcript selection, returning the graded verdict. Exactly
// one predicate call is made per tree edge actually taken; the tree's
// textual order is the invocation order, so a short-circuited branch never
// queries data the tree did not reach.
func (e *Engine) ClassifyPVS1(ctx context.Context, variant *domain.SequenceVariant, selection *domain.TranscriptSelection, exons []domain.Exon, consequences []string) (*domain.Verdict, error) {
	verdict, err := e.classify(ctx, variant, selection, exons, consequences)
	if err != nil {
		return nil, err
	}
	return &verdict, nil
}

func (e *Engine) classify(ctx context.Context, variant *domain.SequenceVariant, selection *domain.TranscriptSelection, exons []domain.Exon, consequences []string) (domain.Verdict, error) {
	if ctx.Err() != nil {
		return domain.Verdict{}, domain.NewCancelledError(ctx.Err())
	}

	rationale := NewRationale()
	predicates := NewPVS1Predicates(e.annotation, e.splicing, rationale)

	var (
		level domain.VerdictLevel
		path  domain.PathLabel
		err   error
	)

	switch selection.Category {
	case domain.NonsenseFrameshift:
		level, path, err = e.classifyNonsenseFrameshift(ctx, variant, selection, exons, predicates, rationale)
	case domain.SpliceSites:
		level, path, err = e.classifySpliceSites(ctx, variant, selection, exons, consequences, predicates, rationale)
	case domain.InitiationCodon:
		level, path, err = e.classifyInitiationCodon(ctx, variant, selection, exons, predicates)
	default:
		rationale.Add("consequence category is not PVS1-eligible")
		level, path = domain.LevelUnsupportedConsequence, domain.PathNotSet
	}
	if err != nil {
		return domain.Verdict{}, err
	}
	if ctx.Err() != nil {
		return domain.Verdict{}, domain.NewCancelledError(ctx.Err())
	}

	logrus.WithFields(logrus.Fields{
		"level": level,
		"path":  path,
	}).Debug("PVS1 classification complete")

	return domain.NewVerdict(level, path, rationale.Sentences()...), nil
}

func (e *Engine) classifyNonsenseFrameshift(ctx context.Context, variant *domain.SequenceVariant, selection *domain.TranscriptSelection, exons []domain.Exon, predicates *PVS1Predicates, rationale *Rationale) (domain.VerdictLevel, domain.PathLabel, error) {
	if selection.GeneHGNCID == domain.PTENHGNCID && selection.ProteinPosition < 374 {
		rationale.Add("PTEN (HGNC:9588) truncation upstream of residue 374 overrides the general rule")
		return domain.LevelPVS1, domain.PathPTEN, nil
	}

	if ctx.Err() != nil {
		return "", "", domain.NewCancelledError(ctx.Err())
	}
	if predicates.UndergoNMD(selection.TxPositionWithUTR, selection.GeneHGNCID, selection.Strand, exons) {
		if predicates.InBiorelevantTranscript(selection.TranscriptTags) {
			return domain.LevelPVS1, domain.PathNF1, nil
		}
		return domain.LevelNotPVS1, domain.PathNF2, nil
	}

	if ctx.Err() != nil {
		return "", "", domain.NewCancelledError(ctx.Err())
	}
	critical, err := predicates.CriticalForProteinFunction(ctx, variant, exons, selection.Strand)
	if err != nil {
		return "", "", err
	}
	if critical {
		return domain.LevelPVS1Strong, domain.PathNF3, nil
	}

	if ctx.Err() != nil {
		return "", "", domain.NewCancelledError(ctx.Err())
	}
	frequent, err := predicates.LofFrequentInPopulation(ctx, variant, exons, selection.Strand)
	if err != nil {
		return "", "", err
	}
	biorelevant := predicates.InBiorelevantTranscript(selection.TranscriptTags)
	if frequent || !biorelevant {
		return domain.LevelNotPVS1, domain.PathNF4, nil
	}

	if predicates.LofRemovesGT10Pct(selection.ProteinPosition, selection.ProteinLength) {
		return domain.LevelPVS1Strong, domain.PathNF5, nil
	}
	return domain.LevelPVS1Moderate, domain.PathNF6, nil
}

func (e *Engine) classifySpliceSites(ctx context.Context, variant *domain.SequenceVariant, selection *domain.TranscriptSelection, exons []domain.Exon, consequences []string, predicates *PVS1Predicates, rationale *Rationale) (domain.VerdictLevel, domain.PathLabel, error) {
	if ctx.Err() != nil {
		return "", "", domain.NewCancelledError(ctx.Err())
	}
	disrupts, err := predicates.ExonSkipOrCrypticSSDisrupt(ctx, variant, exons, consequences, selection.Strand)
	if err != nil {
		return "", "", err
	}

	if ctx.Err() != nil {
		return "", "", domain.NewCancelledError(ctx.Err())
	}
	nmd := predicates.UndergoNMD(selection.TxPositionWithUTR, selection.GeneHGNCID, selection.Strand, exons)

	if disrupts && nmd {
		if predicates.InBiorelevantTranscript(selection.TranscriptTags) {
			return domain.LevelPVS1, domain.PathSS1, nil
		}
		return domain.LevelNotPVS1, domain.PathSS2, nil
	}

	if disrupts && !nmd {
		critical, err := predicates.CriticalForProteinFunction(ctx, variant, exons, selection.Strand)
		if err != nil {
			return "", "", err
		}
		if critical {
			return domain.LevelPVS1Strong, domain.PathSS3, nil
		}
		frequent, err := predicates.LofFrequentInPopulation(ctx, variant, exons, selection.Strand)
		if err != nil {
			return "", "", err
		}
		biorelevant := predicates.InBiorelevantTranscript(selection.TranscriptTags)
		if frequent || !biorelevant {
			return domain.LevelNotPVS1, domain.PathSS4, nil
		}
		if predicates.LofRemovesGT10Pct(selection.ProteinPosition, selection.ProteinLength) {
			return domain.LevelPVS1Strong, domain.PathSS5, nil
		}
		return domain.LevelPVS1Moderate, domain.PathSS6, nil
	}

	// !disrupts. The critical-region edge here ends in SS10, the same
	// PVS1_Strong outcome as SS3 on the disrupts && !nmd branch; the two
	// leaves keep distinct path labels.
	critical, err := predicates.CriticalForProteinFunction(ctx, variant, exons, selection.Strand)
	if err != nil {
		return "", "", err
	}
	if critical {
		return domain.LevelPVS1Strong, domain.PathSS10, nil
	}
	frequent, err := predicates.LofFrequentInPopulation(ctx, variant, exons, selection.Strand)
	if err != nil {
		return "", "", err
	}
	biorelevant := predicates.InBiorelevantTranscript(selection.TranscriptTags)
	if frequent || !biorelevant {
		return domain.LevelNotPVS1, domain.PathSS7, nil
	}
	if predicates.LofRemovesGT10Pct(selection.ProteinPosition, selection.ProteinLength) {
		return domain.LevelPVS1Strong, domain.PathSS8, nil
	}
	return domain.LevelPVS1Moderate, domain.PathSS9, nil
}

func (e *Engine) classifyInitiationCodon(ctx context.Context, variant *domain.SequenceVariant, selection *domain.TranscriptSelection, exons []domain.Exon, predicates *PVS1Predicates) (domain.VerdictLevel, domain.PathLabel, error) {
	if predicates.AlternativeStartCodon(selection.CDSInfo, selection.HGVSID) {
		return domain.LevelNotPVS1, domain.PathIC3, nil
	}

	upstream, err := predicates.UpstreamPathogenicVariants(ctx, variant, exons, selection.Strand, selection.CDSInfo, selection.HGVSID)
	if err != nil {
		return "", "", err
	}
	if upstream {
		return domain.LevelPVS1Moderate, domain.PathIC1, nil
	}
	return domain.LevelPVS1Supporting, domain.PathIC2, nil
}
