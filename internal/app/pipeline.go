// Package app wires the PVS1 engine and its collaborators (C2-C6) into a
// single classification pipeline shared by cmd/classify and cmd/pvs1-mcp.
// It mirrors the teacher's ClassifierService (internal/service/classifier.go)
// in shape: parse input, gather evidence, classify, summarize — but the
// "rule evaluation" step here is always PVS1 alone rather than the
// umbrella ACMG/AMP rule set.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pvs1-classifier/internal/config"
	"github.com/pvs1-classifier/internal/domain"
	"github.com/pvs1-classifier/internal/service"
	"github.com/pvs1-classifier/pkg/external"
	"github.com/pvs1-classifier/pkg/hgvs"
)

// Classifier bundles one resolver (C2), one annotation client (C3), one
// splicing predictor (C6), and the decision engine (C8) into a single
// request/response entry point: Classify.
type Classifier struct {
	resolver   *service.VariantResolver
	annotation domain.AnnotationClient
	splicing   domain.SplicingPredictor
	engine     *service.Engine
	logger     *logrus.Logger
}

// NewClassifier builds a Classifier from a LiteConfig, matching the
// standalone (no config file) wiring cmd/classify and cmd/pvs1-mcp both
// need: a Redis cache is used when the configured Redis answers a ping, and
// the classifier runs without a cache otherwise. Upstream base URLs are the same production
// defaults the teacher's createKnowledgeBaseService wires (server_lite.go).
func NewClassifier(cfg *config.LiteConfig, logger *logrus.Logger) (*Classifier, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	clinVarConfig := domain.ClinVarConfig{
		BaseURL:   "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
		APIKey:    cfg.ClinVarAPIKey,
		Timeout:   30 * time.Second,
		RateLimit: 10,
	}
	gnomadConfig := domain.GnomADConfig{
		BaseURL:   "https://gnomad.broadinstitute.org/api",
		Timeout:   30 * time.Second,
		RateLimit: 10,
	}
	ensemblConfig := domain.EnsemblConfig{
		BaseURL:   "https://rest.ensembl.org",
		Timeout:   30 * time.Second,
		RateLimit: 15,
	}
	normalizerConfig := domain.NormalizerConfig{
		BaseURL:   "https://variantvalidator.org/VariantValidator/variantvalidator",
		Timeout:   30 * time.Second,
		RateLimit: 5,
	}

	cache, err := external.NewCacheClient(domain.CacheConfig{
		RedisURL:   cfg.RedisURL,
		DefaultTTL: cfg.CacheTTL,
		PoolSize:   10,
		MaxRetries: 3,
		LocalSize:  cfg.CacheMaxItems,
	})
	if err != nil {
		logger.WithError(err).Warn("annotation cache unavailable, proceeding without it")
		cache = nil
	}

	annotationClient := external.NewAnnotationHTTPClient(clinVarConfig, gnomadConfig, ensemblConfig, cache)
	splicingClient := external.NewSplicingHTTPClient(ensemblConfig)
	normalizer := hgvs.NewHTTPNormalizer(normalizerConfig)
	resolver := service.NewVariantResolver(normalizer)
	engine := service.NewEngine(annotationClient, splicingClient)

	return &Classifier{
		resolver:   resolver,
		annotation: annotationClient,
		splicing:   splicingClient,
		engine:     engine,
		logger:     logger,
	}, nil
}

// Classify runs one variant string through C2-C8: resolve, select a
// transcript pair, classify its consequences, build the derived transcript
// selection, and dispatch the PVS1 decision tree. A transcript-selection
// miss (spec §4.3) short-circuits to UnsupportedConsequence rather than an
// error, matching the engine's own NotSet-category handling.
func (c *Classifier) Classify(ctx context.Context, input string, defaultAssembly domain.Assembly) (*domain.Verdict, error) {
	variant, err := c.resolver.Resolve(ctx, input, defaultAssembly)
	if err != nil {
		return nil, fmt.Errorf("resolving variant %q: %w", input, err)
	}
	c.logger.WithFields(logrus.Fields{
		"input":      input,
		"chromosome": variant.Chromosome(),
		"position":   variant.Position(),
	}).Info("resolved variant")

	variantTranscripts, geneTranscripts, err := c.annotation.TranscriptsForVariant(ctx, variant)
	if err != nil {
		return nil, fmt.Errorf("fetching transcripts for %s: %w", variant, err)
	}

	variantTx, geneTx, ok := service.SelectTranscriptPair(variantTranscripts, geneTranscripts)
	if !ok {
		verdict := domain.Unsupported("no overlapping variant/gene transcript pair found")
		return &verdict, nil
	}

	annotation, err := c.annotation.VariantInfo(ctx, variant)
	if err != nil {
		return nil, fmt.Errorf("fetching variant_info for %s: %w", variant, err)
	}
	consequences := extractConsequences(annotation)

	category := service.ClassifyConsequences(consequences)
	selection, err := service.BuildTranscriptSelection(variant, variantTx, geneTx, geneTranscripts, category)
	if err != nil {
		return nil, fmt.Errorf("building transcript selection: %w", err)
	}

	cds, ok := selection.SelectedCDS()
	if !ok {
		return nil, domain.NewMissingDataError("selected transcript %s has no CDS geometry", selection.HGVSID)
	}

	return c.engine.ClassifyPVS1(ctx, variant, selection, cds.Exons, consequences)
}

// extractConsequences reads the variant's own VEP consequence tokens off
// its gnomAD-genomes annotation (spec §6), returning nil rather than a
// sentinel when no gnomAD annotation is present.
func extractConsequences(annotation *domain.VariantAnnotation) []string {
	if annotation == nil || annotation.GnomadGenomes == nil {
		return nil
	}
	consequences := make([]string, 0, len(annotation.GnomadGenomes.Vep))
	for _, entry := range annotation.GnomadGenomes.Vep {
		consequences = append(consequences, entry.Consequence)
	}
	return consequences
}
