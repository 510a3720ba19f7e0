package domain

import "fmt"

// SequenceVariant is the canonical coordinate representation used
// throughout the engine: a single substitution/deletion/insertion/delins
// event anchored to a specific genome assembly.
//
// Constructed only by the resolver (service.VariantResolver); immutable
// once built, since NewSequenceVariant validates every invariant up front
// and nothing downstream mutates it.
type SequenceVariant struct {
	assembly   Assembly
	chromosome string
	position   int64
	deleted    string
	inserted   string
	display    string
}

// NewSequenceVariant builds a SequenceVariant, enforcing:
//   - position >= 1
//   - position + len(deleted) - 1 <= chromosomeLength(assembly, chromosome)
//   - both deleted and inserted are non-empty strings over {A,C,G,T}
//
// display is the original input string the variant was parsed from, kept
// for error messages and rationale text; it is not re-validated.
func NewSequenceVariant(assembly Assembly, chromosome string, position int64, deleted, inserted, display string) (*SequenceVariant, error) {
	if !assembly.IsValid() {
		return nil, NewInvalidPositionError("unsupported assembly %q", assembly)
	}
	chromosome = NormalizeChromosome(chromosome)
	if position < 1 {
		return nil, NewInvalidPositionError("position %d must be >= 1", position)
	}
	if err := validateAlleleString(deleted); err != nil {
		return nil, NewInvalidPositionError("deleted allele invalid: %s", err)
	}
	if err := validateAlleleString(inserted); err != nil {
		return nil, NewInvalidPositionError("inserted allele invalid: %s", err)
	}
	length, ok := ChromosomeLength(assembly, chromosome)
	if !ok {
		return nil, NewInvalidPositionError("unrecognized chromosome %q for assembly %s", chromosome, assembly)
	}
	end := position + int64(len(deleted)) - 1
	if end > length {
		return nil, NewInvalidPositionError("position %d+len(deleted)-1=%d exceeds chromosome %s length %d", position, end, chromosome, length)
	}
	return &SequenceVariant{
		assembly:   assembly,
		chromosome: chromosome,
		position:   position,
		deleted:    deleted,
		inserted:   inserted,
		display:    display,
	}, nil
}

func (v *SequenceVariant) Assembly() Assembly    { return v.assembly }
func (v *SequenceVariant) Chromosome() string    { return v.chromosome }
func (v *SequenceVariant) Position() int64       { return v.position }
func (v *SequenceVariant) Deleted() string       { return v.deleted }
func (v *SequenceVariant) Inserted() string      { return v.inserted }
func (v *SequenceVariant) Display() string       { return v.display }
func (v *SequenceVariant) End() int64            { return v.position + int64(len(v.deleted)) - 1 }

// IsSNV reports whether the variant substitutes a single base for another
// single base (no net length change).
func (v *SequenceVariant) IsSNV() bool {
	return len(v.deleted) == 1 && len(v.inserted) == 1
}

// LengthChange returns len(inserted) - len(deleted): positive for net
// insertions, negative for net deletions, zero for substitutions of equal
// length.
func (v *SequenceVariant) LengthChange() int {
	return len(v.inserted) - len(v.deleted)
}

// SPDI renders the variant in SPDI notation (seq:position:deletion:insertion),
// 0-based as SPDI requires.
func (v *SequenceVariant) SPDI(accession string) string {
	return fmt.Sprintf("%s:%d:%s:%s", accession, v.position-1, v.deleted, v.inserted)
}

func (v *SequenceVariant) String() string {
	if v.display != "" {
		return v.display
	}
	return fmt.Sprintf("%s-%d-%s-%s (%s)", v.chromosome, v.position, v.deleted, v.inserted, v.assembly)
}
