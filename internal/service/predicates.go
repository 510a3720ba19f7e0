package service

import (
	"context"
	"fmt"

	"github.com/pvs1-classifier/internal/domain"
)

// PVS1Predicates implements the eight helper predicates of C7. Every method
// takes exactly the inputs it needs (spec §4.6) and appends a short
// rationale sentence to the shared commentary the decision tree (C8) is
// building for the run.
type PVS1Predicates struct {
	annotation domain.AnnotationClient
	splicing   domain.SplicingPredictor
	rationale  *Rationale
}

// NewPVS1Predicates builds a predicate set bound to one annotation client,
// one splicing predictor, and the Rationale accumulator for the current
// classification run.
func NewPVS1Predicates(annotation domain.AnnotationClient, splicing domain.SplicingPredictor, rationale *Rationale) *PVS1Predicates {
	return &PVS1Predicates{annotation: annotation, splicing: splicing, rationale: rationale}
}

// UndergoNMD implements undergo_nmd. GJB2 (HGNC:4284) always escapes the
// general rule. Exon sizes are computed in transcription order; exons are
// stored genome order throughout this module, so the slice is walked in
// reverse for minus-strand transcripts.
func (p *PVS1Predicates) UndergoNMD(newStopTxPosition int64, hgncID string, strand domain.Strand, exons []domain.Exon) bool {
	if hgncID == domain.GJB2HGNCID {
		p.rationale.Add("GJB2 (HGNC:4284) is exempted from the general NMD rule; undergo_nmd = true")
		return true
	}
	if len(exons) <= 1 {
		p.rationale.Add("transcript has a single exon, so NMD does not apply")
		return false
	}

	ordered := exons
	if strand == domain.Minus {
		ordered = make([]domain.Exon, len(exons))
		for i, e := range exons {
			ordered[len(exons)-1-i] = e
		}
	}

	sizes := make([]int64, len(ordered))
	var total int64
	for i, e := range ordered {
		sizes[i] = e.AltCDSEnd - e.AltCDSStart + 1
		total += sizes[i]
	}

	// The last exon is excluded from the cutoff sum: a stop in the final
	// exon never triggers NMD regardless of its distance from the
	// penultimate exon-exon junction.
	penultimate := sizes[len(sizes)-2]
	window := penultimate
	if window > 50 {
		window = 50
	}
	cutoff := total - sizes[len(sizes)-1] - window

	result := newStopTxPosition <= cutoff
	p.rationale.Add(fmt.Sprintf("premature stop at tx position %d against NMD cutoff %d: undergo_nmd = %t", newStopTxPosition, cutoff, result))
	return result
}

// InBiorelevantTranscript implements in_biorelevant_transcript: the exact,
// case-sensitive token "ManeSelect" must be present among the transcript's
// tags.
func (p *PVS1Predicates) InBiorelevantTranscript(tags []string) bool {
	for _, tag := range tags {
		if tag == "ManeSelect" {
			p.rationale.Add("selected transcript carries the ManeSelect tag")
			return true
		}
	}
	p.rationale.Add("selected transcript does not carry the ManeSelect tag")
	return false
}

// CriticalForProteinFunction implements critical_for_protein_function.
func (p *PVS1Predicates) CriticalForProteinFunction(ctx context.Context, variant *domain.SequenceVariant, exons []domain.Exon, strand domain.Strand) (bool, error) {
	if len(exons) == 0 {
		return false, domain.NewMissingDataError("critical_for_protein_function: transcript has no exons")
	}
	var start, end int64
	if strand == domain.Minus {
		start, end = exons[0].AltStart, variant.Position()
	} else {
		start, end = variant.Position(), exons[len(exons)-1].AltEnd
	}

	records, err := p.annotation.VariantsInRange(ctx, variant, start, end)
	if err != nil {
		return false, domain.AsAlgorithmError(err)
	}

	var pathogenic, total int
	for _, rec := range records {
		if rec.ClinVar == nil || len(rec.ClinVar.Records) == 0 {
			continue
		}
		total++
		if rec.ClinVar.Records[0].IsPathogenic() {
			pathogenic++
		}
	}

	result := total > 0 && float64(pathogenic)/float64(total) > 0.05
	p.rationale.Add(fmt.Sprintf("critical-region scan found %d/%d pathogenic ClinVar records in [%d,%d]: critical_for_protein_function = %t", pathogenic, total, start, end, result))
	return result, nil
}

// LofFrequentInPopulation implements lof_frequent_in_population.
func (p *PVS1Predicates) LofFrequentInPopulation(ctx context.Context, variant *domain.SequenceVariant, exons []domain.Exon, strand domain.Strand) (bool, error) {
	pos0 := variant.Position() - 1
	var containing *domain.Exon
	for i := range exons {
		if exons[i].Contains(pos0) {
			containing = &exons[i]
			break
		}
	}
	if containing == nil {
		return false, domain.NewAlgorithmError("lof_frequent_in_population: no exon contains variant position %d", variant.Position())
	}

	records, err := p.annotation.VariantsInRange(ctx, variant, containing.AltStart, containing.AltEnd)
	if err != nil {
		return false, domain.AsAlgorithmError(err)
	}

	var lof, frequentLoF int
	for _, rec := range records {
		if rec.GnomadGenomes == nil {
			continue
		}
		isLoF := false
		for _, entry := range rec.GnomadGenomes.Vep {
			if entry.IsLoF() {
				isLoF = true
				break
			}
		}
		if !isLoF {
			continue
		}
		lof++
		if rec.GnomadGenomes.ExceedsAFPopmax(0.001) {
			frequentLoF++
		}
	}

	result := lof > 0 && float64(frequentLoF)/float64(lof) > 0.1
	p.rationale.Add(fmt.Sprintf("exon-level gnomAD scan found %d/%d frequent LoF alleles: lof_frequent_in_population = %t", frequentLoF, lof, result))
	return result, nil
}

// LofRemovesGT10Pct implements lof_removes_gt_10pct.
func (p *PVS1Predicates) LofRemovesGT10Pct(proteinPosition, proteinLength int64) bool {
	if proteinLength == 0 {
		p.rationale.Add("protein length is zero; lof_removes_gt_10pct = false")
		return false
	}
	result := float64(proteinPosition)/float64(proteinLength) > 0.1
	p.rationale.Add(fmt.Sprintf("truncation at protein position %d of %d: lof_removes_gt_10pct = %t", proteinPosition, proteinLength, result))
	return result
}

// ExonSkipOrCrypticSSDisrupt implements exon_skip_or_cryptic_ss_disrupt.
// The frame test uses the affected exon's genomic length
// (AltEnd-AltStart), not its coding length.
func (p *PVS1Predicates) ExonSkipOrCrypticSSDisrupt(ctx context.Context, variant *domain.SequenceVariant, exons []domain.Exon, consequences []string, strand domain.Strand) (bool, error) {
	pos := variant.Position()

	var affected *domain.Exon
	matches := 0
	for i := range exons {
		if exons[i].AltStart-9 <= pos && pos <= exons[i].AltEnd+23 {
			affected = &exons[i]
			matches++
		}
	}
	if matches != 1 {
		return false, domain.NewAlgorithmError("exon_skip_or_cryptic_ss_disrupt: expected exactly one affected exon near position %d, found %d", pos, matches)
	}

	length := affected.AltEnd - affected.AltStart
	if length%3 != 0 {
		p.rationale.Add(fmt.Sprintf("affected exon length %d not a multiple of 3: frame not preserved, exon_skip_or_cryptic_ss_disrupt = true", length))
		return true, nil
	}

	spliceType := p.splicing.DetermineSpliceType(consequences)
	windowStart := pos - 20
	windowEnd := pos + 20
	sequence, err := p.splicing.ReferenceSequence(ctx, variant.Assembly(), variant.Chromosome(), windowStart, windowEnd)
	if err != nil {
		return false, domain.AsAlgorithmError(err)
	}
	sites, err := p.splicing.CrypticSites(ctx, sequence, windowStart, spliceType)
	if err != nil {
		return false, domain.AsAlgorithmError(err)
	}

	for _, site := range sites {
		delta := site.Position - pos
		if delta < 0 {
			delta = -delta
		}
		if delta%3 != 0 {
			p.rationale.Add(fmt.Sprintf("cryptic site at %d is out of frame with variant position %d: exon_skip_or_cryptic_ss_disrupt = true", site.Position, pos))
			return true, nil
		}
	}

	p.rationale.Add("affected exon is in-frame and no out-of-frame cryptic site found: exon_skip_or_cryptic_ss_disrupt = false")
	return false, nil
}

// AlternativeStartCodon implements alternative_start_codon.
func (p *PVS1Predicates) AlternativeStartCodon(cdsInfo map[string]domain.TranscriptCDS, mainAccession string) bool {
	main, ok := cdsInfo[mainAccession]
	if !ok {
		p.rationale.Add("main transcript not found in CDS info; alternative_start_codon = false")
		return false
	}
	for accession, cds := range cdsInfo {
		if accession == mainAccession || cds.Strand != main.Strand {
			continue
		}
		if main.Strand == domain.Minus {
			if cds.CDSEnd != main.CDSEnd {
				p.rationale.Add(fmt.Sprintf("alternative transcript %s has a different start codon on the minus strand", accession))
				return true
			}
		} else {
			if cds.CDSStart != main.CDSStart {
				p.rationale.Add(fmt.Sprintf("alternative transcript %s has a different start codon on the plus strand", accession))
				return true
			}
		}
	}
	p.rationale.Add("no alternative transcript uses a different start codon")
	return false
}

// closestAlternativeStart finds, among every other same-strand accession
// with a different start coordinate than main, the one closest to main's
// start codon. Shared by AlternativeStartCodon's sibling predicate.
func closestAlternativeStart(cdsInfo map[string]domain.TranscriptCDS, mainAccession string) (int64, bool) {
	main, ok := cdsInfo[mainAccession]
	if !ok {
		return 0, false
	}
	mainStart := main.CDSStart
	if main.Strand == domain.Minus {
		mainStart = main.CDSEnd
	}

	var closest int64
	found := false
	var bestDistance int64
	for accession, cds := range cdsInfo {
		if accession == mainAccession || cds.Strand != main.Strand {
			continue
		}
		altStart := cds.CDSStart
		if main.Strand == domain.Minus {
			altStart = cds.CDSEnd
		}
		if altStart == mainStart {
			continue
		}
		distance := altStart - mainStart
		if distance < 0 {
			distance = -distance
		}
		if !found || distance < bestDistance {
			closest, bestDistance, found = altStart, distance, true
		}
	}
	return closest, found
}

// UpstreamPathogenicVariants implements upstream_pathogenic_variants.
// On the plus strand the scanned range runs from the first exon's start to
// the closest alternative start codon; it is not clipped to the main
// transcript's 5' UTR.
func (p *PVS1Predicates) UpstreamPathogenicVariants(ctx context.Context, variant *domain.SequenceVariant, exons []domain.Exon, strand domain.Strand, cdsInfo map[string]domain.TranscriptCDS, mainAccession string) (bool, error) {
	if len(exons) == 0 {
		return false, domain.NewMissingDataError("upstream_pathogenic_variants: transcript has no exons")
	}
	closest, ok := closestAlternativeStart(cdsInfo, mainAccession)
	if !ok {
		p.rationale.Add("no alternative start codon exists upstream; upstream_pathogenic_variants = false")
		return false, nil
	}

	var start, end int64
	if strand == domain.Minus {
		start, end = closest, exons[len(exons)-1].AltEnd
	} else {
		start, end = exons[0].AltStart, closest
	}

	records, err := p.annotation.VariantsInRange(ctx, variant, start, end)
	if err != nil {
		return false, domain.AsAlgorithmError(err)
	}

	for _, rec := range records {
		if rec.ClinVar == nil || len(rec.ClinVar.Records) == 0 {
			continue
		}
		if rec.ClinVar.Records[0].IsPathogenic() {
			p.rationale.Add(fmt.Sprintf("found a pathogenic ClinVar record in [%d,%d] upstream of the alternative start codon", start, end))
			return true, nil
		}
	}
	p.rationale.Add(fmt.Sprintf("no pathogenic ClinVar record found in [%d,%d] upstream of the alternative start codon", start, end))
	return false, nil
}
