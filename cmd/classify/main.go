// Package main provides the classify CLI: the collaborator surface spec.md
// §1 scopes out of the core engine ("the command-line surface ... are
// external collaborators"). It classifies one variant argument, or one
// variant per stdin line in sequence, with no persistence — a thin cobra
// front end over internal/app.Classifier, in the style of the teacher's
// cmd/server/main.go wiring and inodb-vibe-vep's cobra-based CLI.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pvs1-classifier/internal/app"
	"github.com/pvs1-classifier/internal/config"
	"github.com/pvs1-classifier/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var genomeRelease string
	cfg := config.LoadLiteConfig()

	cmd := &cobra.Command{
		Use:   "classify [variant-string]",
		Short: "Classify a sequence variant against the ACMG/AMP PVS1 criterion",
		Long: `classify runs one variant through the PVS1 decision tree and prints its
graded verdict, decision path, and rationale.

Given no arguments, classify reads newline-delimited variant strings from
stdin and classifies each in turn (spec.md explicitly excludes
multi-variant batch *optimization* from the engine; this is plain
sequential looping at the CLI layer, not a new core capability).`,
		Example: `  classify 13-20189547-G-A --genome-release GRCh38
  echo "17-43094464-C-T" | classify --genome-release hg38`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assembly, err := parseGenomeRelease(genomeRelease)
			if err != nil {
				return err
			}

			logger := logrus.New()
			classifier, err := app.NewClassifier(cfg, logger)
			if err != nil {
				return fmt.Errorf("initializing classifier: %w", err)
			}

			ctx := cmd.Context()
			if len(args) == 1 {
				return classifyOne(ctx, classifier, args[0], assembly, cmd.OutOrStdout())
			}
			return classifyStdin(ctx, classifier, assembly, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&genomeRelease, "genome-release", cfg.DefaultAssembly, "Genome assembly: GRCh37, GRCh38, hg19, or hg38")
	return cmd
}

func parseGenomeRelease(token string) (domain.Assembly, error) {
	switch strings.ToUpper(token) {
	case "GRCH37", "HG19":
		return domain.GRCh37, nil
	case "GRCH38", "HG38":
		return domain.GRCh38, nil
	default:
		return "", fmt.Errorf("unrecognized --genome-release %q (want GRCh37, GRCh38, hg19, or hg38)", token)
	}
}

func classifyOne(ctx context.Context, classifier *app.Classifier, variantString string, assembly domain.Assembly, out io.Writer) error {
	verdict, err := classifier.Classify(ctx, variantString, assembly)
	if err != nil {
		return fmt.Errorf("classifying %q: %w", variantString, err)
	}
	printVerdict(out, variantString, verdict)
	return nil
}

func classifyStdin(ctx context.Context, classifier *app.Classifier, assembly domain.Assembly, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	exitErr := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		verdict, err := classifier.Classify(ctx, line, assembly)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error classifying %q: %v\n", line, err)
			exitErr = true
			continue
		}
		printVerdict(out, line, verdict)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	if exitErr {
		return fmt.Errorf("one or more variants failed to classify")
	}
	return nil
}

func printVerdict(out io.Writer, variantString string, verdict *domain.Verdict) {
	fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", variantString, verdict.Level, verdict.Path, verdict.Rationale)
}
