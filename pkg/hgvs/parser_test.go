package hgvs

import (
	"errors"
	"testing"

	"github.com/pvs1-classifier/internal/domain"
)

func TestParseVariantGenomicSubstitution(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name          string
		input         string
		expectedChrom string
		expectedPos   int64
		expectedRef   string
		expectedAlt   string
		wantErr       bool
	}{
		{
			name:          "NC accession",
			input:         "NC_000017.11:g.43104261G>T",
			expectedChrom: "17",
			expectedPos:   43104261,
			expectedRef:   "G",
			expectedAlt:   "T",
		},
		{
			name:          "chr notation",
			input:         "chr17:g.43104261G>T",
			expectedChrom: "17",
			expectedPos:   43104261,
			expectedRef:   "G",
			expectedAlt:   "T",
		},
		{
			name:          "X chromosome",
			input:         "chrX:g.12345A>C",
			expectedChrom: "X",
			expectedPos:   12345,
			expectedRef:   "A",
			expectedAlt:   "C",
		},
		{
			name:    "Empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "Invalid HGVS format",
			input:   "invalid-hgvs",
			wantErr: true,
		},
		{
			name:    "Malformed position",
			input:   "chr17:g.invalidG>T",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.ParseVariant(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVariant() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.Chromosome() != tt.expectedChrom {
				t.Errorf("Chromosome() = %v, want %v", result.Chromosome(), tt.expectedChrom)
			}
			if result.Position() != tt.expectedPos {
				t.Errorf("Position() = %v, want %v", result.Position(), tt.expectedPos)
			}
			if result.Deleted() != tt.expectedRef {
				t.Errorf("Deleted() = %v, want %v", result.Deleted(), tt.expectedRef)
			}
			if result.Inserted() != tt.expectedAlt {
				t.Errorf("Inserted() = %v, want %v", result.Inserted(), tt.expectedAlt)
			}
			if result.Assembly() != domain.GRCh38 {
				t.Errorf("Assembly() = %v, want %v", result.Assembly(), domain.GRCh38)
			}
		})
	}
}

func TestParseVariantNeedsRemoteResolution(t *testing.T) {
	parser := NewParser()

	tests := []string{
		"NC_000017.11:g.43104261_43104263del",
		"NC_000017.11:g.43104261_43104262insATG",
		"NC_000017.11:g.43104261_43104263dup",
		"NC_000017.11:g.43104261_43104263inv",
		"NM_000059.3:c.274G>T",
		"NP_000050.2:p.Gly92Cys",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := parser.ParseVariant(input)
			if !errors.Is(err, ErrNeedsRemoteResolution) {
				t.Errorf("ParseVariant(%q) error = %v, want ErrNeedsRemoteResolution", input, err)
			}
		})
	}
}

func TestParserValidateHGVS(t *testing.T) {
	parser := NewParser()
	if err := parser.ValidateHGVS("NC_000017.11:g.43104261G>T"); err != nil {
		t.Errorf("ValidateHGVS() unexpected error: %v", err)
	}
	if err := parser.ValidateHGVS("not-hgvs"); err == nil {
		t.Error("ValidateHGVS() expected error for malformed input")
	}
}
