// Package openapi loads and validates the OpenAPI document that feeds
// pkg/extractor, per spec.md §5's "load" step. Every failure here is a
// ferr.SpecError: a malformed or unreachable spec is fatal to the whole
// pipeline run, never a recoverable per-element condition the way an
// unsupported schema construct is.
package openapi

import (
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/libninjago/libninja/pkg/ferr"
)

// LoadDocument loads an OpenAPI document from a local file path or an
// HTTP(S) URL, wrapping any failure as a *ferr.SpecError.
func LoadDocument(input string) (*openapi3.T, error) {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	return LoadDocumentWithLoader(loader, input)
}

// LoadDocumentWithLoader loads an OpenAPI document using a caller-supplied
// loader, so tests can exercise a Loader with different ref-resolution
// settings without going through LoadDocument's defaults.
func LoadDocumentWithLoader(loader *openapi3.Loader, input string) (*openapi3.T, error) {
	var (
		doc *openapi3.T
		err error
	)
	if u, perr := url.Parse(input); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(input)
	}
	if err != nil {
		return nil, &ferr.SpecError{Element: input, Reason: err.Error()}
	}
	return doc, nil
}

// ValidateDocument loads and runs the OpenAPI schema's own structural
// validation over input, independent of extraction; used by the CLI's
// "validate" command to check a spec without generating a client.
func ValidateDocument(input string) error {
	loader := &openapi3.Loader{IsExternalRefsAllowed: true}
	doc, err := LoadDocumentWithLoader(loader, input)
	if err != nil {
		return err
	}
	if err := doc.Validate(loader.Context); err != nil {
		return &ferr.SpecError{Element: input, Reason: err.Error()}
	}
	return nil
}
