package service

import (
	"sort"

	"github.com/pvs1-classifier/internal/domain"
)

// SelectTranscriptPair implements C4: given every variant-transcript and
// every gene-transcript transcripts_for_variant returned, picks the
// preferred pair by intersecting accession sets, preferring the accession
// tagged ManeSelect, and tie-breaking on the lexicographically smallest
// accession (spec §4.3). Returns ok=false if the lists are empty or
// disjoint, signalling the engine to short-circuit to UnsupportedConsequence.
func SelectTranscriptPair(variantTranscripts, geneTranscripts []domain.TranscriptDescription) (variantTx, geneTx domain.TranscriptDescription, ok bool) {
	geneByAccession := make(map[string]domain.TranscriptDescription, len(geneTranscripts))
	for _, g := range geneTranscripts {
		geneByAccession[g.Accession] = g
	}

	var candidates []domain.TranscriptDescription
	for _, v := range variantTranscripts {
		if _, found := geneByAccession[v.Accession]; found {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return domain.TranscriptDescription{}, domain.TranscriptDescription{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		iMane, jMane := candidates[i].IsManeSelect(), candidates[j].IsManeSelect()
		if iMane != jMane {
			return iMane
		}
		return candidates[i].Accession < candidates[j].Accession
	})

	selected := candidates[0]
	return selected, geneByAccession[selected.Accession], true
}

// BuildTranscriptSelection assembles the derived TranscriptSelection fields
// the decision tree and its predicates consume (spec §3): the transcript
// accession/tags, the variant's position within the spliced transcript
// (including 5' UTR), its protein position/length, the per-accession CDS
// map every predicate needing alternative transcripts reads from, and the
// already-classified consequence category.
func BuildTranscriptSelection(variant *domain.SequenceVariant, variantTx, geneTx domain.TranscriptDescription, allGeneTranscripts []domain.TranscriptDescription, category domain.ConsequenceCategory) (*domain.TranscriptSelection, error) {
	cdsInfo := make(map[string]domain.TranscriptCDS, len(allGeneTranscripts))
	candidates := make([]string, 0, len(allGeneTranscripts))
	for _, g := range allGeneTranscripts {
		cdsInfo[g.Accession] = g.CDS
		candidates = append(candidates, g.Accession)
	}

	txPosition, err := transcriptPosition(variant, geneTx.CDS)
	if err != nil {
		return nil, err
	}

	proteinPosition, proteinLength := proteinCoordinates(txPosition, geneTx.CDS)

	return &domain.TranscriptSelection{
		HGVSID:            geneTx.Accession,
		GeneHGNCID:        geneTx.GeneHGNCID,
		GeneSymbol:        geneTx.GeneSymbol,
		TranscriptTags:    variantTx.Tags,
		TxPositionWithUTR: txPosition,
		ProteinPosition:   proteinPosition,
		ProteinLength:     proteinLength,
		Strand:            geneTx.CDS.Strand,
		Category:          category,
		CDSInfo:           cdsInfo,
		Candidates:        candidates,
	}, nil
}

// transcriptPosition maps a variant's genomic position onto a 1-based
// position within the spliced transcript (including 5' UTR): locate the
// containing exon, then accumulate the lengths of every exon ahead of it in
// transcription order.
func transcriptPosition(variant *domain.SequenceVariant, cds domain.TranscriptCDS) (int64, error) {
	pos0 := variant.Position() - 1
	containing, ok := cds.ExonAt(pos0)
	if !ok {
		return 0, domain.NewMissingDataError("variant position %d falls outside every exon of the selected transcript", variant.Position())
	}

	var cumulative int64
	for _, exon := range cds.Exons {
		upstream := exon.AltEnd <= containing.AltStart
		if cds.Strand == domain.Minus {
			upstream = exon.AltStart >= containing.AltEnd
		}
		if upstream {
			cumulative += exon.Length()
		}
	}

	var offset int64
	if cds.Strand == domain.Minus {
		offset = containing.AltEnd - 1 - pos0
	} else {
		offset = pos0 - containing.AltStart
	}
	return cumulative + offset + 1, nil
}

// proteinCoordinates derives the 1-based amino acid position of txPosition
// within the CDS and the protein's total length (CDS length, stop codon
// excluded, divided by 3). Positions upstream of the start codon report a
// protein position of 0.
func proteinCoordinates(txPosition int64, cds domain.TranscriptCDS) (position, length int64) {
	txPos0 := txPosition - 1
	if txPos0 < cds.StartCodon {
		position = 0
	} else {
		position = (txPos0-cds.StartCodon)/3 + 1
	}
	codingLength := cds.CDSLength() - 3
	if codingLength < 0 {
		codingLength = 0
	}
	length = codingLength / 3
	return position, length
}
