package extractor

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/libninjago/libninja/pkg/ferr"
	"github.com/libninjago/libninja/pkg/hir"
)

// Context carries the OpenAPI document and the in-progress HirSpec
// through every extraction step, plus the warnings accumulated along the
// way (UnsupportedFeature recoveries, per spec.md §4.8).
type Context struct {
	Doc      *openapi3.T
	Spec     *hir.HirSpec
	Warnings []*ferr.UnsupportedFeature

	resolver *Resolver
}

// NewContext constructs an extraction Context for doc.
func NewContext(doc *openapi3.T) *Context {
	c := &Context{Doc: doc, Spec: hir.NewHirSpec()}
	c.resolver = NewResolver(c)
	return c
}

// Resolver returns the shared type resolver.
func (c *Context) Resolver() *Resolver {
	return c.resolver
}

// Warn records an UnsupportedFeature recovery, per spec.md §4.8's "log a
// warning, emit Any / skip the strategy, continue". It does not print
// anything itself; the collected Warnings are returned by Extract and
// printed by the CLI after the run.
func (c *Context) Warn(element, feature string) {
	c.Warnings = append(c.Warnings, &ferr.UnsupportedFeature{Element: element, Feature: feature})
}
