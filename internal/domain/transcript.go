package domain

// Exon describes one exon of a transcript in reference coordinates, two
// ways: the full exon span (alt_start/alt_end, 0-based half-open) and the
// CDS-clipped view used for coding-length arithmetic (alt_cds_start/
// alt_cds_end, -1 when the exon carries no coding sequence at all).
type Exon struct {
	AltStart    int64
	AltEnd      int64
	AltCDSStart int64
	AltCDSEnd   int64
	Ordinal     int
}

// Length returns the exon's genomic length (alt_end - alt_start), per the
// "preserve genomic-length reading" decision for exon-skip arithmetic.
func (e Exon) Length() int64 {
	return e.AltEnd - e.AltStart
}

// HasCDS reports whether any part of this exon is coding.
func (e Exon) HasCDS() bool {
	return e.AltCDSStart >= 0 && e.AltCDSEnd >= 0 && e.AltCDSEnd > e.AltCDSStart
}

// CDSLength returns the coding length contributed by this exon, 0 if none.
func (e Exon) CDSLength() int64 {
	if !e.HasCDS() {
		return 0
	}
	return e.AltCDSEnd - e.AltCDSStart
}

// Contains reports whether a 0-based reference position falls within this
// exon's full span.
func (e Exon) Contains(pos int64) bool {
	return pos >= e.AltStart && pos < e.AltEnd
}

// ContainsCDS reports whether a 0-based reference position falls within
// this exon's coding span.
func (e Exon) ContainsCDS(pos int64) bool {
	return e.HasCDS() && pos >= e.AltCDSStart && pos < e.AltCDSEnd
}

// TranscriptCDS describes the coding geometry of one transcript: its start
// and stop codon positions (0-based, transcript coordinates), overall CDS
// span, strand, and ordered exon list.
type TranscriptCDS struct {
	StartCodon int64
	StopCodon  int64
	CDSStart   int64
	CDSEnd     int64
	Strand     Strand
	Exons      []Exon
}

// CDSLength returns the total coding-sequence length, stop codon included.
func (t TranscriptCDS) CDSLength() int64 {
	return t.StopCodon + 3 - t.StartCodon
}

// ExonAt returns the exon containing the given 0-based reference position and
// whether one was found. Exons are assumed sorted by Ordinal ascending.
func (t TranscriptCDS) ExonAt(pos int64) (Exon, bool) {
	for _, e := range t.Exons {
		if e.Contains(pos) {
			return e, true
		}
	}
	return Exon{}, false
}

// TranscriptDescription is one transcript record as returned by
// transcripts_for_variant (C3): its accession, the gene it belongs to, the
// feature tags annotation services attach (e.g. "ManeSelect"), and its
// coding geometry. The transcript selector (C4) picks one pair of these
// (a variant-transcript and a gene-transcript sharing an accession); the
// tags feed in_biorelevant_transcript (C7).
type TranscriptDescription struct {
	Accession  string
	GeneHGNCID string
	GeneSymbol string
	Tags       []string
	CDS        TranscriptCDS
}

// HasTag reports whether this transcript record carries the given tag.
func (t TranscriptDescription) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// IsManeSelect reports whether this transcript carries the MANE Select tag,
// the tie-break criterion transcript selection (C4) prefers.
func (t TranscriptDescription) IsManeSelect() bool {
	return t.HasTag("ManeSelect")
}

// TranscriptSelection carries the selected transcript (the one the variant
// was annotated against) plus the derived fields the decision tree and its
// predicates consume.
type TranscriptSelection struct {
	HGVSID            string
	GeneHGNCID        string
	GeneSymbol        string
	TranscriptTags    []string
	TxPositionWithUTR int64
	ProteinPosition   int64
	ProteinLength     int64
	Strand            Strand
	Category          ConsequenceCategory
	CDSInfo           map[string]TranscriptCDS
	Candidates        []string
}

// HasTag reports whether the selected transcript carries the given tag
// (e.g. "ManeSelect").
func (t TranscriptSelection) HasTag(tag string) bool {
	for _, tg := range t.TranscriptTags {
		if tg == tag {
			return true
		}
	}
	return false
}

// IsManeSelect reports whether the transcript carries the exact,
// case-sensitive "ManeSelect" tag token (spec §4.6, in_biorelevant_transcript).
func (t TranscriptSelection) IsManeSelect() bool {
	return t.HasTag("ManeSelect")
}

// SelectedCDS returns the TranscriptCDS for the HGVSID currently selected.
func (t TranscriptSelection) SelectedCDS() (TranscriptCDS, bool) {
	cds, ok := t.CDSInfo[t.HGVSID]
	return cds, ok
}
