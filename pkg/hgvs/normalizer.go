package hgvs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/pvs1-classifier/internal/domain"
)

// HTTPNormalizer implements domain.RemoteNormalizer against a
// VariantValidator-style REST service: the resolver's (C2) last-resort
// collaborator for dbSNP rs#, HGVS c./p., and ClinVar VCV/RCV inputs that
// none of the resolver's local grammars match.
type HTTPNormalizer struct {
	httpClient *http.Client
	config     domain.NormalizerConfig
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// NewHTTPNormalizer builds an HTTPNormalizer from config.
func NewHTTPNormalizer(config domain.NormalizerConfig) *HTTPNormalizer {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = 5
	}
	return &HTTPNormalizer{
		httpClient: &http.Client{Timeout: timeout},
		config:     config,
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), 1),
		breaker:    newNormalizerBreaker(),
	}
}

func newNormalizerBreaker() *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{
		Name:        "variant-normalizer",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}
	return gobreaker.NewCircuitBreaker(st)
}

// normalizerWire mirrors the subset of a VariantValidator response this
// module needs: the resolved genomic description and its primary assembly.
type normalizerWire struct {
	GenomicHGVS string `json:"genomic_hgvs"`
	Assembly    string `json:"assembly"`
}

// Normalize implements domain.RemoteNormalizer.
func (n *HTTPNormalizer) Normalize(ctx context.Context, input string, defaultAssembly domain.Assembly) (*domain.SequenceVariant, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, domain.NewCancelledError(err)
	}

	assembly := defaultAssembly
	if assembly == "" {
		assembly = domain.GRCh38
	}
	endpoint := fmt.Sprintf("%s/%s/%s/%s", n.config.BaseURL, url.PathEscape(input), assembly, "all")

	result, err := n.breaker.Execute(func() (interface{}, error) {
		return n.fetchJSON(ctx, endpoint)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, domain.NewConnectionError(err, "variant normalizer unavailable (circuit breaker open)")
		}
		return nil, domain.NewConnectionError(err, "variant normalization request failed")
	}

	var wires []normalizerWire
	if err := json.Unmarshal(result.([]byte), &wires); err != nil {
		return nil, domain.NewInvalidAPIResponseError(err, "could not decode normalizer response")
	}
	if len(wires) == 0 || wires[0].GenomicHGVS == "" {
		return nil, domain.NewParseError(input, fmt.Errorf("normalizer returned no genomic description"))
	}

	parser := NewParser()
	variant, err := parser.ParseVariant(wires[0].GenomicHGVS)
	if err != nil {
		return nil, domain.NewParseError(input, fmt.Errorf("normalizer result %q not parseable: %w", wires[0].GenomicHGVS, err))
	}
	return variant, nil
}

func (n *HTTPNormalizer) fetchJSON(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
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

var _ domain.RemoteNormalizer = (*HTTPNormalizer)(nil)
