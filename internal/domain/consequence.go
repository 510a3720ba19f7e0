package domain

// consequenceTable is the fixed lookup from raw VEP-style consequence
// tokens to the four categories the engine branches on (spec §4.4, §6).
// The table is exhaustive for the terms the engine needs to recognize;
// anything absent maps to NotSetCategory.
var consequenceTable = map[string]ConsequenceCategory{
	// NonsenseFrameshift
	"frameshift_variant":  NonsenseFrameshift,
	"stop_gained":         NonsenseFrameshift,
	"3_prime_utr_variant": NonsenseFrameshift,

	// SpliceSites
	"splice_donor_variant":                  SpliceSites,
	"splice_acceptor_variant":               SpliceSites,
	"splice_region_variant":                 SpliceSites,
	"splice_donor_5th_base_variant":         SpliceSites,
	"splice_donor_region_variant":           SpliceSites,
	"splice_polypyrimidine_tract_variant":   SpliceSites,

	// InitiationCodon
	"start_lost":              InitiationCodon,
	"initiator_codon_variant": InitiationCodon,
	"start_retained_variant":  InitiationCodon,
	"upstream_gene_variant":   InitiationCodon,
	"downstream_gene_variant": InitiationCodon,

	// Missense
	"missense_variant": Missense,
}

// ClassifyConsequences maps a list of raw VEP-style consequence tokens to
// the single highest-priority category present (NonsenseFrameshift >
// SpliceSites > InitiationCodon > Missense), or NotSetCategory if none of
// the tokens are recognized.
func ClassifyConsequences(consequences []string) ConsequenceCategory {
	best := NotSetCategory
	found := false
	for _, c := range consequences {
		cat, ok := consequenceTable[c]
		if !ok {
			continue
		}
		if !found || HigherPriority(cat, best) {
			best = cat
			found = true
		}
	}
	if !found {
		return NotSetCategory
	}
	return best
}
