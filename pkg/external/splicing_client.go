package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/pvs1-classifier/internal/domain"
)

// SplicingHTTPClient implements domain.SplicingPredictor (C6): it fetches
// reference sequence from Ensembl, classifies a consequence list as
// Donor/Acceptor/Unknown, and scores cryptic splice-site candidates with a
// maximum-entropy-style model. Splice-impact-from-first-principles is
// delegated to this collaborator per spec §1; this is the reference
// implementation, not a re-derivation of MaxEnt from the published
// position-weight matrices (see DESIGN.md for why the scoring table below
// is hand-rolled rather than imported).
type SplicingHTTPClient struct {
	httpClient *http.Client
	config     domain.EnsemblConfig
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker

	// minScore is the model-internal threshold below which a candidate
	// cryptic site is not reported (spec §4.5).
	minScore float64
}

// NewSplicingHTTPClient builds a SplicingHTTPClient sharing the Ensembl
// upstream configuration with the annotation client's transcript lookups.
func NewSplicingHTTPClient(config domain.EnsemblConfig) *SplicingHTTPClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SplicingHTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		config:     config,
		limiter:    rate.NewLimiter(rate.Limit(nonZero(config.RateLimit, 15)), 1),
		breaker:    newUpstreamBreaker("Ensembl-sequence"),
		minScore:   3.0,
	}
}

type sequenceWire struct {
	Seq string `json:"seq"`
}

// ReferenceSequence implements domain.SplicingPredictor.
func (c *SplicingHTTPClient) ReferenceSequence(ctx context.Context, assembly domain.Assembly, chromosome string, start, end int64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", domain.NewCancelledError(err)
	}

	endpoint := fmt.Sprintf("%s/sequence/region/human/%s:%d-%d?coord_system_version=%s",
		c.config.BaseURL, chromosome, start+1, end, ensemblAssemblyName(assembly))

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchJSON(ctx, endpoint)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return "", domain.NewConnectionError(err, "Ensembl sequence service unavailable (circuit breaker open)")
		}
		return "", domain.NewConnectionError(err, "reference_sequence request failed")
	}

	var wire sequenceWire
	if err := json.Unmarshal(result.([]byte), &wire); err != nil {
		return "", domain.NewInvalidAPIResponseError(err, "could not decode reference_sequence response")
	}
	return strings.ToUpper(wire.Seq), nil
}

func ensemblAssemblyName(assembly domain.Assembly) string {
	if assembly == domain.GRCh37 {
		return "GRCh37"
	}
	return "GRCh38"
}

// donorTokens and acceptorTokens classify a raw VEP consequence as pointing at a
// donor or acceptor splice site, per spec §4.5.
var (
	donorTokens = map[string]bool{
		"splice_donor_variant":          true,
		"splice_donor_5th_base_variant": true,
		"splice_donor_region_variant":   true,
	}
	acceptorTokens = map[string]bool{
		"splice_acceptor_variant":             true,
		"splice_polypyrimidine_tract_variant": true,
	}
)

// DetermineSpliceType implements domain.SplicingPredictor.
func (c *SplicingHTTPClient) DetermineSpliceType(consequences []string) domain.SpliceType {
	for _, token := range consequences {
		if donorTokens[token] {
			return domain.SpliceDonor
		}
	}
	for _, token := range consequences {
		if acceptorTokens[token] {
			return domain.SpliceAcceptor
		}
	}
	return domain.SpliceUnknown
}

// donorConsensus and acceptorConsensus are simplified position-weight
// matrices (one row per position, columns A/C/G/T) approximating the
// published MaxEnt donor (9-mer, positions -3..+6) and acceptor (23-mer)
// splice-site models, scaled to keep scores in a comparable range to the
// published MaxEnt log-odds scores. They are deliberately compact: this
// reference implementation exists to give exon_skip_or_cryptic_ss_disrupt
// (C7) a real collaborator to call, not to reproduce MaxEntScan bit-for-bit.
var donorConsensus = [][4]float64{
	{0.1, 0.1, 0.1, 0.1}, // -3
	{0.1, 0.1, 0.1, 0.1}, // -2
	{0.1, 0.1, 0.1, 0.1}, // -1
	{0.0, 0.0, 1.0, 0.0}, // +1 (exon|G)
	{0.0, 0.0, 0.0, 1.0}, // +2 (T)
	{0.6, 0.1, 0.2, 0.1}, // +3
	{0.1, 0.1, 0.1, 0.1}, // +4
	{0.1, 0.1, 0.6, 0.1}, // +5
	{0.2, 0.2, 0.2, 0.4}, // +6
}

var acceptorConsensus = buildAcceptorConsensus()

func buildAcceptorConsensus() [][4]float64 {
	// A 23-base window: a pyrimidine-rich tract followed by "AG".
	rows := make([][4]float64, 23)
	for i := 0; i < 20; i++ {
		rows[i] = [4]float64{0.1, 0.45, 0.05, 0.4} // pyrimidine-rich (C/T)
	}
	rows[20] = [4]float64{0.85, 0.05, 0.05, 0.05} // A
	rows[21] = [4]float64{0.05, 0.05, 0.85, 0.05} // G
	rows[22] = [4]float64{0.25, 0.25, 0.25, 0.25}
	return rows
}

var baseIndex = map[byte]int{'A': 0, 'C': 1, 'G': 2, 'T': 3}

// scoreWindow computes a log-odds score for the motif of matrix's length
// starting at offset within sequence, against a uniform 0.25 background.
// Positions with an unrecognized base contribute no information (treated as
// background); a window that does not fit entirely inside sequence is not
// scored and ok is false.
func scoreWindow(sequence string, offset int, matrix [][4]float64) (float64, bool) {
	if offset < 0 || offset+len(matrix) > len(sequence) {
		return 0, false
	}
	var score float64
	for i, row := range matrix {
		idx, ok := baseIndex[sequence[offset+i]]
		if !ok {
			continue
		}
		p := row[idx]
		if p <= 0 {
			p = 0.001
		}
		score += math.Log2(p / 0.25)
	}
	return score, true
}

// CrypticSites implements domain.SplicingPredictor: it slides the
// appropriate consensus matrix across referenceWindow, scores every
// candidate position, and returns those exceeding minScore sorted
// descending by score. windowStart is the genomic (0-based) coordinate of
// referenceWindow[0], used to translate local offsets back to genomic
// positions.
func (c *SplicingHTTPClient) CrypticSites(ctx context.Context, referenceWindow string, windowStart int64, spliceType domain.SpliceType) ([]domain.CrypticSite, error) {
	if ctx.Err() != nil {
		return nil, domain.NewCancelledError(ctx.Err())
	}
	if referenceWindow == "" {
		return nil, domain.NewInvalidAPIResponseError(nil, "cryptic_sites: empty reference window")
	}

	matrix := donorConsensus
	if spliceType == domain.SpliceAcceptor {
		matrix = acceptorConsensus
	}

	var sites []domain.CrypticSite
	for offset := 0; offset <= len(referenceWindow)-len(matrix); offset++ {
		score, ok := scoreWindow(referenceWindow, offset, matrix)
		if !ok || score <= c.minScore {
			continue
		}
		sites = append(sites, domain.CrypticSite{
			Position:        windowStart + int64(offset),
			Context:         referenceWindow[offset : offset+len(matrix)],
			MaxEntropyScore: score,
		})
	}

	for i := 1; i < len(sites); i++ {
		j := i
		for j > 0 && sites[j-1].MaxEntropyScore < sites[j].MaxEntropyScore {
			sites[j-1], sites[j] = sites[j], sites[j-1]
			j--
		}
	}

	return sites, nil
}

func (c *SplicingHTTPClient) fetchJSON(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

var _ domain.SplicingPredictor = (*SplicingHTTPClient)(nil)
