package domain

import (
	"errors"
	"testing"
)

func TestClassificationErrorConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *ClassificationError
		code    ErrorCode
		wantMsg string
	}{
		{
			name:    "parse error",
			err:     NewParseError("bogus-variant", nil),
			code:    ErrParseError,
			wantMsg: `PARSE_ERROR: could not parse variant "bogus-variant"`,
		},
		{
			name:    "invalid position",
			err:     NewInvalidPositionError("position %d exceeds chromosome length", 999999999),
			code:    ErrInvalidPosition,
			wantMsg: "INVALID_POSITION: position 999999999 exceeds chromosome length",
		},
		{
			name:    "missing data",
			err:     NewMissingDataError("strand is unset"),
			code:    ErrMissingData,
			wantMsg: "MISSING_DATA: strand is unset",
		},
		{
			name:    "algorithm error",
			err:     NewAlgorithmError("variant position outside all exons"),
			code:    ErrAlgorithmError,
			wantMsg: "ALGORITHM_ERROR: variant position outside all exons",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, tt.err.Error())
			}
		})
	}
}

func TestClassificationErrorIsMatchesByCode(t *testing.T) {
	a := NewMissingDataError("exons missing")
	b := NewMissingDataError("strand missing")

	if !errors.Is(a, b) {
		t.Error("expected two MissingData errors to match via errors.Is")
	}

	c := NewParseError("x", nil)
	if errors.Is(a, c) {
		t.Error("expected errors with different codes not to match")
	}
}

func TestAsAlgorithmErrorConvertsInvalidAPIResponse(t *testing.T) {
	original := NewInvalidAPIResponseError(nil, "missing clinvar field")
	converted := AsAlgorithmError(original)

	ce, ok := converted.(*ClassificationError)
	if !ok {
		t.Fatalf("expected *ClassificationError, got %T", converted)
	}
	if ce.Code != ErrAlgorithmError {
		t.Errorf("expected code %s, got %s", ErrAlgorithmError, ce.Code)
	}
	if !errors.Is(ce.Cause, original) {
		t.Error("expected converted error to wrap the original as its cause")
	}
}

func TestAsAlgorithmErrorPassesThroughOtherCodes(t *testing.T) {
	original := NewConnectionError(nil, "timeout")
	converted := AsAlgorithmError(original)
	if converted != original {
		t.Error("expected non-InvalidAPIResponse errors to pass through unchanged")
	}
}
