// Package external provides the reference HTTP-backed implementations of
// the annotation client (C3) and splicing prediction (C6) contracts
// declared in internal/domain/interfaces.go. Transport itself is out of
// scope for the core engine; this package exists so the engine has a real
// collaborator to run against ClinVar, gnomAD, and Ensembl.
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/pvs1-classifier/internal/domain"
)

// AnnotationHTTPClient implements domain.AnnotationClient against ClinVar,
// gnomAD, and Ensembl, with one rate limiter and one circuit breaker per
// upstream (mirroring the teacher's per-service ResilientExternalClient
// shape) and a CacheClient in front of variant_info/variants_in_range.
type AnnotationHTTPClient struct {
	httpClient *http.Client
	cache      *CacheClient

	clinVarConfig domain.ClinVarConfig
	gnomADConfig  domain.GnomADConfig
	ensemblConfig domain.EnsemblConfig

	clinVarLimiter *rate.Limiter
	gnomADLimiter  *rate.Limiter
	ensemblLimiter *rate.Limiter

	clinVarBreaker *gobreaker.CircuitBreaker
	gnomADBreaker  *gobreaker.CircuitBreaker
	ensemblBreaker *gobreaker.CircuitBreaker
}

// NewAnnotationHTTPClient builds an AnnotationHTTPClient. cache may be nil,
// in which case variant_info/variants_in_range always hit the network.
func NewAnnotationHTTPClient(clinVar domain.ClinVarConfig, gnomAD domain.GnomADConfig, ensembl domain.EnsemblConfig, cache *CacheClient) *AnnotationHTTPClient {
	timeout := 30 * time.Second
	return &AnnotationHTTPClient{
		httpClient:     &http.Client{Timeout: timeout},
		cache:          cache,
		clinVarConfig:  clinVar,
		gnomADConfig:   gnomAD,
		ensemblConfig:  ensembl,
		clinVarLimiter: rate.NewLimiter(rate.Limit(nonZero(clinVar.RateLimit, 10)), 1),
		gnomADLimiter:  rate.NewLimiter(rate.Limit(nonZero(gnomAD.RateLimit, 10)), 1),
		ensemblLimiter: rate.NewLimiter(rate.Limit(nonZero(ensembl.RateLimit, 15)), 1),
		clinVarBreaker: newUpstreamBreaker("ClinVar"),
		gnomADBreaker:  newUpstreamBreaker("gnomAD"),
		ensemblBreaker: newUpstreamBreaker("Ensembl"),
	}
}

func nonZero(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

// clinVarWireRecord and friends mirror the JSON contract of spec §6,
// decoded loosely so unknown fields are ignored and missing optional
// fields decode to nil rather than a sentinel.
type clinVarWire struct {
	Records []clinVarWireRecord `json:"records"`
}

type clinVarWireRecord struct {
	Classifications struct {
		GermlineClassification *struct {
			Description string `json:"description"`
		} `json:"germlineClassification"`
	} `json:"classifications"`
}

type gnomadGenomesWire struct {
	AlleleCounts []struct {
		AFPopmax *float64 `json:"afPopmax"`
	} `json:"alleleCounts"`
	Vep []struct {
		Consequence string `json:"consequence"`
	} `json:"vep"`
}

type dbnsfpWire struct {
	HGVSp map[string]string `json:"HGVSp"`
}

type variantAnnotationWire struct {
	ClinVar       *clinVarWire       `json:"clinvar"`
	GnomadGenomes *gnomadGenomesWire `json:"gnomad_genomes"`
	DBNSFP        *dbnsfpWire        `json:"dbnsfp"`
}

func (w variantAnnotationWire) toDomain() domain.VariantAnnotation {
	var ann domain.VariantAnnotation
	if w.ClinVar != nil {
		records := make([]domain.ClinVarRecord, 0, len(w.ClinVar.Records))
		for _, r := range w.ClinVar.Records {
			var rec domain.ClinVarRecord
			if r.Classifications.GermlineClassification != nil {
				rec.Classifications.GermlineClassification = &domain.GermlineClassification{
					Description: r.Classifications.GermlineClassification.Description,
				}
			}
			records = append(records, rec)
		}
		ann.ClinVar = &domain.ClinVarAnnotation{Records: records}
	}
	if w.GnomadGenomes != nil {
		g := &domain.GnomadAnnotation{}
		for _, ac := range w.GnomadGenomes.AlleleCounts {
			g.AlleleCounts = append(g.AlleleCounts, domain.GnomadAlleleCount{AFPopmax: ac.AFPopmax})
		}
		for _, v := range w.GnomadGenomes.Vep {
			g.Vep = append(g.Vep, domain.GnomadVepEntry{Consequence: v.Consequence})
		}
		ann.GnomadGenomes = g
	}
	if w.DBNSFP != nil {
		ann.DBNSFP = &domain.DBNSFPAnnotation{HGVSp: w.DBNSFP.HGVSp}
	}
	return ann
}

// VariantInfo implements domain.AnnotationClient.
func (c *AnnotationHTTPClient) VariantInfo(ctx context.Context, variant *domain.SequenceVariant) (*domain.VariantAnnotation, error) {
	if c.cache != nil {
		if cached, found, err := c.cache.GetVariantInfo(ctx, variant); err == nil && found {
			return cached, nil
		}
	}

	if err := c.clinVarLimiter.Wait(ctx); err != nil {
		return nil, domain.NewCancelledError(err)
	}

	endpoint := fmt.Sprintf("%s/variant_annotation?chrom=%s&pos=%d&ref=%s&alt=%s&assembly=%s",
		c.clinVarConfig.BaseURL, variant.Chromosome(), variant.Position(), variant.Deleted(), variant.Inserted(), variant.Assembly())

	result, err := c.clinVarBreaker.Execute(func() (interface{}, error) {
		return c.fetchJSON(ctx, endpoint)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, domain.NewConnectionError(err, "annotation service unavailable (circuit breaker open)")
		}
		return nil, domain.NewConnectionError(err, "variant_info request failed")
	}

	var wire variantAnnotationWire
	if err := json.Unmarshal(result.([]byte), &wire); err != nil {
		return nil, domain.NewInvalidAPIResponseError(err, "could not decode variant_info response")
	}
	ann := wire.toDomain()

	if c.cache != nil {
		if err := c.cache.SetVariantInfo(ctx, variant, &ann, 0); err != nil {
			logrus.WithError(err).Warn("failed to cache variant_info response")
		}
	}

	return &ann, nil
}

// VariantsInRange implements domain.AnnotationClient.
func (c *AnnotationHTTPClient) VariantsInRange(ctx context.Context, variant *domain.SequenceVariant, start, end int64) ([]domain.VariantAnnotation, error) {
	if c.cache != nil {
		if cached, found, err := c.cache.GetRange(ctx, variant, start, end); err == nil && found {
			return cached, nil
		}
	}

	if err := c.gnomADLimiter.Wait(ctx); err != nil {
		return nil, domain.NewCancelledError(err)
	}

	endpoint := fmt.Sprintf("%s/variants_in_range?chrom=%s&start=%d&end=%d&assembly=%s",
		c.gnomADConfig.BaseURL, variant.Chromosome(), start, end, variant.Assembly())

	result, err := c.gnomADBreaker.Execute(func() (interface{}, error) {
		return c.fetchJSON(ctx, endpoint)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, domain.NewConnectionError(err, "annotation service unavailable (circuit breaker open)")
		}
		return nil, domain.NewConnectionError(err, "variants_in_range request failed")
	}

	var wires []variantAnnotationWire
	if err := json.Unmarshal(result.([]byte), &wires); err != nil {
		return nil, domain.NewInvalidAPIResponseError(err, "could not decode variants_in_range response")
	}
	out := make([]domain.VariantAnnotation, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.toDomain())
	}

	if c.cache != nil {
		if err := c.cache.SetRange(ctx, variant, start, end, out, 0); err != nil {
			logrus.WithError(err).Warn("failed to cache variants_in_range response")
		}
	}

	return out, nil
}

// ensemblExonWire mirrors one exon entry of an Ensembl transcript lookup
// ("expand=1") response.
type ensemblExonWire struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
	Rank  int   `json:"rank"`
}

type ensemblTranscriptWire struct {
	ID            string            `json:"id"`
	Strand        int               `json:"strand"`
	TranslStart   int64             `json:"translation_start"`
	TranslEnd     int64             `json:"translation_end"`
	Exons         []ensemblExonWire `json:"Exon"`
	GeneHGNCID    string            `json:"gene_hgnc_id"`
	GeneSymbol    string            `json:"external_name"`
	IsCanonical   int               `json:"is_canonical"`
	Tags          []string          `json:"tags"`
}

func (w ensemblTranscriptWire) toDescription() domain.TranscriptDescription {
	strand := domain.Plus
	if w.Strand < 0 {
		strand = domain.Minus
	}
	exons := make([]domain.Exon, 0, len(w.Exons))
	for i, e := range w.Exons {
		exons = append(exons, domain.Exon{
			AltStart:    e.Start - 1,
			AltEnd:      e.End,
			AltCDSStart: e.Start - 1,
			AltCDSEnd:   e.End,
			Ordinal:     i,
		})
	}
	tags := append([]string{}, w.Tags...)
	if w.IsCanonical == 1 && !containsString(tags, "ManeSelect") {
		tags = append(tags, "ManeSelect")
	}
	return domain.TranscriptDescription{
		Accession:  w.ID,
		GeneHGNCID: w.GeneHGNCID,
		GeneSymbol: w.GeneSymbol,
		Tags:       tags,
		CDS: domain.TranscriptCDS{
			StartCodon: w.TranslStart - 1,
			StopCodon:  w.TranslEnd - 1,
			CDSStart:   w.TranslStart - 1,
			CDSEnd:     w.TranslEnd,
			Strand:     strand,
			Exons:      exons,
		},
	}
}

func containsString(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}

// TranscriptsForVariant implements domain.AnnotationClient.
func (c *AnnotationHTTPClient) TranscriptsForVariant(ctx context.Context, variant *domain.SequenceVariant) ([]domain.TranscriptDescription, []domain.TranscriptDescription, error) {
	if err := c.ensemblLimiter.Wait(ctx); err != nil {
		return nil, nil, domain.NewCancelledError(err)
	}

	endpoint := fmt.Sprintf("%s/overlap/region/human/%s:%d-%d?feature=transcript;expand=1",
		c.ensemblConfig.BaseURL, variant.Chromosome(), variant.Position(), variant.End())

	result, err := c.ensemblBreaker.Execute(func() (interface{}, error) {
		return c.fetchJSON(ctx, endpoint)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return nil, nil, domain.NewConnectionError(err, "Ensembl unavailable (circuit breaker open)")
		}
		return nil, nil, domain.NewConnectionError(err, "transcripts_for_variant request failed")
	}

	var wires []ensemblTranscriptWire
	if err := json.Unmarshal(result.([]byte), &wires); err != nil {
		return nil, nil, domain.NewInvalidAPIResponseError(err, "could not decode transcripts_for_variant response")
	}

	descriptions := make([]domain.TranscriptDescription, 0, len(wires))
	for _, w := range wires {
		descriptions = append(descriptions, w.toDescription())
	}

	// The engine needs the subset of transcripts overlapping the variant
	// (variantTranscripts) and the full gene-transcript set (geneTranscripts);
	// without an independent gene-level query this reference implementation
	// treats every transcript returned by the overlap query as both, which
	// is sufficient whenever the overlap region already covers the whole gene.
	return descriptions, descriptions, nil
}

func (c *AnnotationHTTPClient) fetchJSON(ctx context.Context, endpoint string) ([]byte, error) {
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
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

var _ domain.AnnotationClient = (*AnnotationHTTPClient)(nil)
