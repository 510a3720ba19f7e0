// Package main exposes the PVS1 engine as an MCP tool over stdio. It is the
// thinnest possible binding: a single classify_pvs1 tool backed by the same
// internal/app.Classifier the classify CLI uses. Unlike the teacher's
// server, there is no custom transport bridge, protocol router, tool
// registry, or feedback store here (see DESIGN.md) — the modelcontextprotocol
// go-sdk's own stdio transport is used directly.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/pvs1-classifier/internal/app"
	"github.com/pvs1-classifier/internal/config"
	"github.com/pvs1-classifier/internal/domain"
)

func main() {
	logger := logrus.New()
	cfg := config.LoadLiteConfig()

	classifier, err := app.NewClassifier(cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialize classifier: %v", err)
	}

	serverInfo := &mcp.Implementation{
		Name:    "pvs1-classifier",
		Version: "v0.1.0",
	}
	mcpServer := mcp.NewServer(serverInfo, nil)

	mcpServer.AddTool(&mcp.Tool{
		Name:        "classify_pvs1",
		Description: "Classify a sequence variant against the ACMG/AMP PVS1 criterion, returning its strength level, decision path, and rationale.",
	}, newClassifyPVS1Handler(classifier, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received, closing MCP server")
		cancel()
	}()

	transport := mcp.NewStdioTransport()
	if err := mcpServer.Run(ctx, transport); err != nil {
		log.Fatalf("MCP server stopped with error: %v", err)
	}
}

type classifyPVS1Params struct {
	Variant       string `json:"variant"`
	GenomeRelease string `json:"genome_release,omitempty"`
}

// newClassifyPVS1Handler returns an untyped mcp.ToolHandler, matching the
// registration style the MCP SDK's own server.AddTool accepts: decode
// arguments by hand rather than relying on a generic typed-params variant.
func newClassifyPVS1Handler(classifier *app.Classifier, logger *logrus.Logger) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entry := logger.WithField("correlation_id", uuid.New().String())
		entry.WithField("tool", "classify_pvs1").Info("tool invoked")

		var params classifyPVS1Params
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if params.Variant == "" {
			return errorResult(`missing required parameter "variant"`), nil
		}

		assembly := domain.GRCh38
		if params.GenomeRelease != "" {
			resolved, err := parseGenomeRelease(params.GenomeRelease)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			assembly = resolved
		}

		verdict, err := classifier.Classify(ctx, params.Variant, assembly)
		if err != nil {
			entry.WithError(err).Warn("classification failed")
			return errorResult(fmt.Sprintf("classification failed: %v", err)), nil
		}

		payload, err := json.Marshal(verdict)
		if err != nil {
			return errorResult(fmt.Sprintf("encoding verdict: %v", err)), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(payload)},
			},
		}, nil
	}
}

func parseGenomeRelease(token string) (domain.Assembly, error) {
	switch token {
	case "GRCh37", "grch37", "hg19":
		return domain.GRCh37, nil
	case "GRCh38", "grch38", "hg38":
		return domain.GRCh38, nil
	default:
		return "", fmt.Errorf("unrecognized genome_release %q", token)
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
	}
}
