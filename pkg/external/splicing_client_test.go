package external

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvs1-classifier/internal/domain"
)

func TestSplicingHTTPClient_ReferenceSequence(t *testing.T) {
	var receivedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"seq": "acgtACGT"}`)
	}))
	defer server.Close()

	client := NewSplicingHTTPClient(domain.EnsemblConfig{BaseURL: server.URL, Timeout: 5 * time.Second, RateLimit: 1000})
	seq, err := client.ReferenceSequence(context.Background(), domain.GRCh38, "17", 100, 200)
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGT", seq)
	assert.Contains(t, receivedPath, "17:101-200")
}

func TestSplicingHTTPClient_ReferenceSequence_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewSplicingHTTPClient(domain.EnsemblConfig{BaseURL: server.URL, Timeout: 5 * time.Second, RateLimit: 1000})
	_, err := client.ReferenceSequence(context.Background(), domain.GRCh38, "17", 100, 200)
	require.Error(t, err)
	classificationErr, ok := err.(*domain.ClassificationError)
	require.True(t, ok)
	assert.Equal(t, domain.ErrConnectionError, classificationErr.Code)
}

func TestSplicingHTTPClient_DetermineSpliceType(t *testing.T) {
	client := NewSplicingHTTPClient(domain.EnsemblConfig{})

	tests := []struct {
		name         string
		consequences []string
		want         domain.SpliceType
	}{
		{"donor", []string{"splice_donor_variant"}, domain.SpliceDonor},
		{"donor region", []string{"missense_variant", "splice_donor_region_variant"}, domain.SpliceDonor},
		{"acceptor", []string{"splice_acceptor_variant"}, domain.SpliceAcceptor},
		{"donor beats acceptor", []string{"splice_acceptor_variant", "splice_donor_variant"}, domain.SpliceDonor},
		{"unknown", []string{"missense_variant"}, domain.SpliceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.DetermineSpliceType(tt.consequences)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplicingHTTPClient_CrypticSites_FindsStrongAcceptorMotif(t *testing.T) {
	client := NewSplicingHTTPClient(domain.EnsemblConfig{})

	// A 23-base window that maximizes the acceptor consensus matrix: a
	// pyrimidine-rich (C) run followed by the canonical AG dinucleotide.
	window := strings.Repeat("C", 20) + "AGT"
	sites, err := client.CrypticSites(context.Background(), window, 1000, domain.SpliceAcceptor)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, int64(1000), sites[0].Position)
	assert.Greater(t, sites[0].MaxEntropyScore, 3.0)
}

func TestSplicingHTTPClient_CrypticSites_NoQualifyingDonorMotif(t *testing.T) {
	client := NewSplicingHTTPClient(domain.EnsemblConfig{})

	window := strings.Repeat("A", 9)
	sites, err := client.CrypticSites(context.Background(), window, 0, domain.SpliceDonor)
	require.NoError(t, err)
	assert.Empty(t, sites, "a flat poly-A window should never clear the donor consensus threshold")
}

func TestSplicingHTTPClient_CrypticSites_EmptyWindowErrors(t *testing.T) {
	client := NewSplicingHTTPClient(domain.EnsemblConfig{})
	_, err := client.CrypticSites(context.Background(), "", 0, domain.SpliceDonor)
	require.Error(t, err)
	classificationErr, ok := err.(*domain.ClassificationError)
	require.True(t, ok)
	assert.Equal(t, domain.ErrInvalidAPIResponse, classificationErr.Code)
}

func TestSplicingHTTPClient_CrypticSites_CancelledContext(t *testing.T) {
	client := NewSplicingHTTPClient(domain.EnsemblConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CrypticSites(ctx, "ACGT", 0, domain.SpliceDonor)
	require.Error(t, err)
	classificationErr, ok := err.(*domain.ClassificationError)
	require.True(t, ok)
	assert.Equal(t, domain.ErrCancelled, classificationErr.Code)
}
