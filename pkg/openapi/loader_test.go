package openapi

import (
	"errors"
	"testing"

	"github.com/libninjago/libninja/pkg/ferr"
)

func TestLoadDocumentWrapsMissingFileAsSpecError(t *testing.T) {
	_, err := LoadDocument("testdata/does-not-exist.yaml")
	var specErr *ferr.SpecError
	if !errors.As(err, &specErr) {
		t.Fatalf("expected *ferr.SpecError for a missing spec file, got %v", err)
	}
	if specErr.Element != "testdata/does-not-exist.yaml" {
		t.Errorf("SpecError.Element = %q, want the input path", specErr.Element)
	}
}
