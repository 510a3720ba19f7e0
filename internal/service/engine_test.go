package service

import (
	"context"
	"testing"

	"github.com/pvs1-classifier/internal/domain"
)

// exonsDisrupt is a two-exon CDS whose first exon's genomic length (100) is
// not a multiple of 3, so exon_skip_or_cryptic_ss_disrupt short-circuits to
// true without ever consulting the splicing predictor. Its AltCDSStart/End
// sizes (100, 100) put the NMD cutoff at 50 (the last exon's size is
// excluded from the cutoff sum; only the first exon's 100 bases count,
// windowed to min(50, 100)).
func exonsDisrupt() []domain.Exon {
	return []domain.Exon{
		{AltStart: 0, AltEnd: 100, AltCDSStart: 0, AltCDSEnd: 99},
		{AltStart: 100, AltEnd: 300, AltCDSStart: 100, AltCDSEnd: 199},
	}
}

// exonsInFrame mirrors exonsDisrupt but its first exon's length (99) is a
// multiple of 3, so exon_skip_or_cryptic_ss_disrupt falls through to the
// splicing predictor; with no cryptic sites configured it resolves to false.
func exonsInFrame() []domain.Exon {
	return []domain.Exon{
		{AltStart: 0, AltEnd: 99, AltCDSStart: 0, AltCDSEnd: 99},
		{AltStart: 99, AltEnd: 299, AltCDSStart: 100, AltCDSEnd: 199},
	}
}

func baseSelection(tags []string) *domain.TranscriptSelection {
	return &domain.TranscriptSelection{
		HGVSID:         "NM_000001.1",
		GeneHGNCID:     "HGNC:0001",
		TranscriptTags: tags,
		Strand:         domain.Plus,
	}
}

func newEngine(annotation domain.AnnotationClient, splicing domain.SplicingPredictor) *Engine {
	return NewEngine(annotation, splicing)
}

func TestEngine_NonsenseFrameshift_PTENOverride(t *testing.T) {
	variant := newTestVariant(t, 50)
	selection := baseSelection(nil)
	selection.GeneHGNCID = domain.PTENHGNCID
	selection.ProteinPosition = 100
	selection.Category = domain.NonsenseFrameshift

	e := newEngine(&fakeAnnotationClient{}, &fakeSplicingPredictor{})
	verdict, err := e.ClassifyPVS1(context.Background(), variant, selection, exonsDisrupt(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1 || verdict.Path != domain.PathPTEN {
		t.Errorf("expected PVS1/PathPTEN, got %v/%v", verdict.Level, verdict.Path)
	}
}

func TestEngine_NonsenseFrameshift_NF1AndNF2(t *testing.T) {
	variant := newTestVariant(t, 50)
	exons := exonsDisrupt()

	nf1 := baseSelection([]string{"ManeSelect"})
	nf1.TxPositionWithUTR = 40 // <= cutoff 50: undergoes NMD
	nf1.Category = domain.NonsenseFrameshift
	e := newEngine(&fakeAnnotationClient{}, &fakeSplicingPredictor{})
	verdict, err := e.ClassifyPVS1(context.Background(), variant, nf1, exons, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1 || verdict.Path != domain.PathNF1 {
		t.Errorf("expected PVS1/NF1, got %v/%v", verdict.Level, verdict.Path)
	}

	nf2 := baseSelection(nil)
	nf2.TxPositionWithUTR = 40
	nf2.Category = domain.NonsenseFrameshift
	verdict, err = e.ClassifyPVS1(context.Background(), variant, nf2, exons, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelNotPVS1 || verdict.Path != domain.PathNF2 {
		t.Errorf("expected NotPVS1/NF2, got %v/%v", verdict.Level, verdict.Path)
	}
}

func TestEngine_NonsenseFrameshift_NF3ThroughNF6(t *testing.T) {
	variant := newTestVariant(t, 50)
	exons := exonsDisrupt()

	nf3 := baseSelection(nil)
	nf3.TxPositionWithUTR = 200 // past cutoff: does not undergo NMD
	nf3.Category = domain.NonsenseFrameshift
	e := newEngine(&fakeAnnotationClient{rangeResults: []domain.VariantAnnotation{pathogenicRecord(), pathogenicRecord()}}, &fakeSplicingPredictor{})
	verdict, err := e.ClassifyPVS1(context.Background(), variant, nf3, exons, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1Strong || verdict.Path != domain.PathNF3 {
		t.Errorf("expected PVS1_Strong/NF3, got %v/%v", verdict.Level, verdict.Path)
	}

	nf4 := baseSelection(nil)
	nf4.TxPositionWithUTR = 200
	nf4.Category = domain.NonsenseFrameshift
	e = newEngine(&fakeAnnotationClient{rangeResults: []domain.VariantAnnotation{benignRecord()}}, &fakeSplicingPredictor{})
	verdict, err = e.ClassifyPVS1(context.Background(), variant, nf4, exons, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelNotPVS1 || verdict.Path != domain.PathNF4 {
		t.Errorf("expected NotPVS1/NF4, got %v/%v", verdict.Level, verdict.Path)
	}

	nf5 := baseSelection([]string{"ManeSelect"})
	nf5.TxPositionWithUTR = 200
	nf5.Category = domain.NonsenseFrameshift
	nf5.ProteinPosition, nf5.ProteinLength = 500, 1000
	e = newEngine(&fakeAnnotationClient{rangeResults: []domain.VariantAnnotation{benignRecord()}}, &fakeSplicingPredictor{})
	verdict, err = e.ClassifyPVS1(context.Background(), variant, nf5, exons, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1Strong || verdict.Path != domain.PathNF5 {
		t.Errorf("expected PVS1_Strong/NF5, got %v/%v", verdict.Level, verdict.Path)
	}

	nf6 := baseSelection([]string{"ManeSelect"})
	nf6.TxPositionWithUTR = 200
	nf6.Category = domain.NonsenseFrameshift
	nf6.ProteinPosition, nf6.ProteinLength = 10, 1000
	verdict, err = e.ClassifyPVS1(context.Background(), variant, nf6, exons, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1Moderate || verdict.Path != domain.PathNF6 {
		t.Errorf("expected PVS1_Moderate/NF6, got %v/%v", verdict.Level, verdict.Path)
	}
}

func TestEngine_SpliceSites_DisruptingBranch(t *testing.T) {
	variant := newTestVariant(t, 50)
	exons := exonsDisrupt()

	ss1 := baseSelection([]string{"ManeSelect"})
	ss1.TxPositionWithUTR = 40
	ss1.Category = domain.SpliceSites
	e := newEngine(&fakeAnnotationClient{}, &fakeSplicingPredictor{})
	verdict, err := e.ClassifyPVS1(context.Background(), variant, ss1, exons, []string{"splice_donor_variant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1 || verdict.Path != domain.PathSS1 {
		t.Errorf("expected PVS1/SS1, got %v/%v", verdict.Level, verdict.Path)
	}

	ss2 := baseSelection(nil)
	ss2.TxPositionWithUTR = 40
	ss2.Category = domain.SpliceSites
	verdict, err = e.ClassifyPVS1(context.Background(), variant, ss2, exons, []string{"splice_donor_variant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelNotPVS1 || verdict.Path != domain.PathSS2 {
		t.Errorf("expected NotPVS1/SS2, got %v/%v", verdict.Level, verdict.Path)
	}

	ss3 := baseSelection(nil)
	ss3.TxPositionWithUTR = 200
	ss3.Category = domain.SpliceSites
	e = newEngine(&fakeAnnotationClient{rangeResults: []domain.VariantAnnotation{pathogenicRecord(), pathogenicRecord()}}, &fakeSplicingPredictor{})
	verdict, err = e.ClassifyPVS1(context.Background(), variant, ss3, exons, []string{"splice_donor_variant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1Strong || verdict.Path != domain.PathSS3 {
		t.Errorf("expected PVS1_Strong/SS3, got %v/%v", verdict.Level, verdict.Path)
	}

	ss4 := baseSelection(nil)
	ss4.TxPositionWithUTR = 200
	ss4.Category = domain.SpliceSites
	e = newEngine(&fakeAnnotationClient{rangeResults: []domain.VariantAnnotation{benignRecord()}}, &fakeSplicingPredictor{})
	verdict, err = e.ClassifyPVS1(context.Background(), variant, ss4, exons, []string{"splice_donor_variant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelNotPVS1 || verdict.Path != domain.PathSS4 {
		t.Errorf("expected NotPVS1/SS4, got %v/%v", verdict.Level, verdict.Path)
	}

	ss5 := baseSelection([]string{"ManeSelect"})
	ss5.TxPositionWithUTR = 200
	ss5.Category = domain.SpliceSites
	ss5.ProteinPosition, ss5.ProteinLength = 500, 1000
	verdict, err = e.ClassifyPVS1(context.Background(), variant, ss5, exons, []string{"splice_donor_variant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1Strong || verdict.Path != domain.PathSS5 {
		t.Errorf("expected PVS1_Strong/SS5, got %v/%v", verdict.Level, verdict.Path)
	}

	ss6 := baseSelection([]string{"ManeSelect"})
	ss6.TxPositionWithUTR = 200
	ss6.Category = domain.SpliceSites
	ss6.ProteinPosition, ss6.ProteinLength = 10, 1000
	verdict, err = e.ClassifyPVS1(context.Background(), variant, ss6, exons, []string{"splice_donor_variant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1Moderate || verdict.Path != domain.PathSS6 {
		t.Errorf("expected PVS1_Moderate/SS6, got %v/%v", verdict.Level, verdict.Path)
	}
}

func TestEngine_SpliceSites_NonDisruptingBranch(t *testing.T) {
	variant := newTestVariant(t, 50)
	exons := exonsInFrame()
	splicing := &fakeSplicingPredictor{sequence: "ACGT", sites: nil}

	ss10 := baseSelection(nil)
	ss10.TxPositionWithUTR = 200
	ss10.Category = domain.SpliceSites
	e := newEngine(&fakeAnnotationClient{rangeResults: []domain.VariantAnnotation{pathogenicRecord(), pathogenicRecord()}}, splicing)
	verdict, err := e.ClassifyPVS1(context.Background(), variant, ss10, exons, []string{"splice_donor_variant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1Strong || verdict.Path != domain.PathSS10 {
		t.Errorf("expected PVS1_Strong/SS10, got %v/%v", verdict.Level, verdict.Path)
	}

	ss7 := baseSelection(nil)
	ss7.TxPositionWithUTR = 200
	ss7.Category = domain.SpliceSites
	e = newEngine(&fakeAnnotationClient{rangeResults: []domain.VariantAnnotation{benignRecord()}}, splicing)
	verdict, err = e.ClassifyPVS1(context.Background(), variant, ss7, exons, []string{"splice_donor_variant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelNotPVS1 || verdict.Path != domain.PathSS7 {
		t.Errorf("expected NotPVS1/SS7, got %v/%v", verdict.Level, verdict.Path)
	}

	ss8 := baseSelection([]string{"ManeSelect"})
	ss8.TxPositionWithUTR = 200
	ss8.Category = domain.SpliceSites
	ss8.ProteinPosition, ss8.ProteinLength = 500, 1000
	verdict, err = e.ClassifyPVS1(context.Background(), variant, ss8, exons, []string{"splice_donor_variant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1Strong || verdict.Path != domain.PathSS8 {
		t.Errorf("expected PVS1_Strong/SS8, got %v/%v", verdict.Level, verdict.Path)
	}

	ss9 := baseSelection([]string{"ManeSelect"})
	ss9.TxPositionWithUTR = 200
	ss9.Category = domain.SpliceSites
	ss9.ProteinPosition, ss9.ProteinLength = 10, 1000
	verdict, err = e.ClassifyPVS1(context.Background(), variant, ss9, exons, []string{"splice_donor_variant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1Moderate || verdict.Path != domain.PathSS9 {
		t.Errorf("expected PVS1_Moderate/SS9, got %v/%v", verdict.Level, verdict.Path)
	}
}

func TestEngine_InitiationCodon(t *testing.T) {
	variant := newTestVariant(t, 50)
	exons := exonsDisrupt()

	ic2 := baseSelection(nil)
	ic2.Category = domain.InitiationCodon
	ic2.CDSInfo = map[string]domain.TranscriptCDS{
		"NM_000001.1": {Strand: domain.Plus, CDSStart: 100},
	}
	e := newEngine(&fakeAnnotationClient{}, &fakeSplicingPredictor{})
	verdict, err := e.ClassifyPVS1(context.Background(), variant, ic2, exons, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelPVS1Supporting || verdict.Path != domain.PathIC2 {
		t.Errorf("expected PVS1_Supporting/IC2, got %v/%v", verdict.Level, verdict.Path)
	}

	ic3 := baseSelection(nil)
	ic3.Category = domain.InitiationCodon
	ic3.CDSInfo = map[string]domain.TranscriptCDS{
		"NM_000001.1": {Strand: domain.Plus, CDSStart: 100},
		"NM_000002.1": {Strand: domain.Plus, CDSStart: 50},
	}
	verdict, err = e.ClassifyPVS1(context.Background(), variant, ic3, exons, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelNotPVS1 || verdict.Path != domain.PathIC3 {
		t.Errorf("expected NotPVS1/IC3, got %v/%v", verdict.Level, verdict.Path)
	}
}

func TestEngine_UnsupportedConsequenceCategory(t *testing.T) {
	variant := newTestVariant(t, 50)
	selection := baseSelection(nil)
	selection.Category = domain.Missense
	e := newEngine(&fakeAnnotationClient{}, &fakeSplicingPredictor{})
	verdict, err := e.ClassifyPVS1(context.Background(), variant, selection, exonsDisrupt(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Level != domain.LevelUnsupportedConsequence || verdict.Path != domain.PathNotSet {
		t.Errorf("expected UnsupportedConsequence/PathNotSet, got %v/%v", verdict.Level, verdict.Path)
	}
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	variant := newTestVariant(t, 50)
	selection := baseSelection(nil)
	selection.Category = domain.NonsenseFrameshift
	e := newEngine(&fakeAnnotationClient{}, &fakeSplicingPredictor{})
	_, err := e.ClassifyPVS1(ctx, variant, selection, exonsDisrupt(), nil)
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
}
