package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/honterplatform/icetex/internal/classify"
	"github.com/honterplatform/icetex/internal/extract"
	"github.com/honterplatform/icetex/internal/knowledge"
	"github.com/honterplatform/icetex/internal/llm"
	"github.com/honterplatform/icetex/internal/reduce"
	"github.com/honterplatform/icetex/internal/shared/config"
)

func main() {
	cfg := config.Load()

	pdfPath := flag.String("pdf", "", "Path to the petition PDF")
	model := flag.String("model", cfg.Model, "OpenAI model")
	kbDir := flag.String("kb", cfg.KnowledgeDir, "Knowledge base directory (optional)")
	outPath := flag.String("out", "", "Path to write the JSON result (optional)")
	flag.Parse()

	if strings.TrimSpace(*pdfPath) == "" {
		exitErr("pdf path is required")
	}
	if strings.ToLower(filepath.Ext(*pdfPath)) != ".pdf" {
		exitErr(fmt.Sprintf("unsupported file type: %s", filepath.Ext(*pdfPath)))
	}

	pdfBytes, err := os.ReadFile(*pdfPath)
	if err != nil {
		exitErr(fmt.Sprintf("read pdf: %v", err))
	}

	extractor := extract.New(extract.Config{
		Pdftoppm:  cfg.OCRPdftoppmPath,
		Tesseract: cfg.OCRTesseractPath,
		Lang:      cfg.OCRLang,
		DPI:       cfg.OCRDPI,
	})

	ctx := context.Background()
	ext, err := extractor.FromBytes(ctx, pdfBytes)
	if err != nil {
		exitErr(fmt.Sprintf("extract text: %v", err))
	}

	client, err := llm.NewOpenAI(os.Getenv("OPENAI_API_KEY"), cfg.OpenAIBaseURL)
	if err != nil {
		exitErr(err.Error())
	}

	var kb classify.KnowledgeSource
	if strings.TrimSpace(*kbDir) != "" {
		store, err := knowledge.NewStore(*kbDir, extractor, nil)
		if err != nil {
			exitErr(fmt.Sprintf("open knowledge base: %v", err))
		}
		kb = store
	}

	engine := classify.NewEngine(client, *model, reduce.New(client, *model), kb)
	result, meta := engine.ClassifyWithMetadata(ctx, ext.Text)

	payload := map[string]any{
		"classification": result,
		"metadata": map[string]any{
			"model":             meta.Model,
			"text_length":       meta.TextLength,
			"extraction_method": ext.Method,
			"reduced":           meta.Reduced,
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		exitErr(fmt.Sprintf("encode result: %v", err))
	}

	pretty, err := prettyJSON(raw)
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if len(pretty) == 0 || pretty[len(pretty)-1] != '\n' {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

func prettyJSON(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
