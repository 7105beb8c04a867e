// Package pipeline orchestrates the single batch run described in
// spec.md §5: load, extract, post-process, lower, emit, write — in that
// order, with no retries and no partial success.
package pipeline

import (
	"context"
	"fmt"

	"github.com/libninjago/libninja/pkg/config"
	"github.com/libninjago/libninja/pkg/extractor"
	"github.com/libninjago/libninja/pkg/ferr"
	"github.com/libninjago/libninja/pkg/openapi"
	"github.com/libninjago/libninja/pkg/rustgen"
)

// Result reports what a Run produced, for CLI-level summary output.
type Result struct {
	OutDir         string
	SchemaCount    int
	OperationCount int
	Warnings       []*ferr.UnsupportedFeature
}

// Run executes the full pipeline for a single client target: load the
// spec named by client's owning Config, extract+post-process it into a
// HirSpec, and emit a Rust client library to client.Src().
func Run(specPath string, client config.Client) (*Result, error) {
	if client.Type != "" && client.Type != "rust" {
		return nil, fmt.Errorf("pipeline: unsupported target language %q (only \"rust\" is implemented)", client.Type)
	}

	doc, err := openapi.LoadDocument(specPath)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, &ferr.SpecError{Element: specPath, Reason: err.Error()}
	}

	spec, warnings, err := extractor.Extract(doc, client.Name)
	if err != nil {
		return nil, err
	}

	if err := rustgen.Emit(spec, client); err != nil {
		return nil, err
	}

	return &Result{
		OutDir:         client.Src(),
		SchemaCount:    spec.SchemaCount(),
		OperationCount: len(spec.Operations),
		Warnings:       warnings,
	}, nil
}
