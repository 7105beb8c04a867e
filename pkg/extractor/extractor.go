package extractor

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/libninjago/libninja/pkg/ferr"
	"github.com/libninjago/libninja/pkg/hir"
)

// Extract runs the full §4 extraction pipeline over doc and returns the
// post-processed HirSpec (schemas, then operations, then security, then
// servers and docs URL, then the two post-processing passes) along with
// any UnsupportedFeature warnings recovered along the way.
func Extract(doc *openapi3.T, serviceName string) (*hir.HirSpec, []*ferr.UnsupportedFeature, error) {
	ctx := NewContext(doc)
	records := NewRecordExtractor(ctx)
	operations := NewOperationExtractor(ctx, records)
	security := NewSecurityExtractor(ctx, serviceName)

	for _, name := range sortedSchemaNames(doc) {
		records.Extract(name, doc.Components.Schemas[name])
	}

	operations.ExtractAll()

	ctx.Spec.Security = security.Extract()
	ctx.Spec.Servers = extractServers(doc)
	ctx.Spec.APIDocsURL = extractDocsURL(doc)

	spec, err := NewPostProcessor(ctx).Run()
	return spec, ctx.Warnings, err
}

func sortedSchemaNames(doc *openapi3.T) []string {
	if doc.Components == nil {
		return nil
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// extractServers maps each OpenAPI server entry to a label -> URL pair.
// A lone server is recorded under the empty-string label whatever its
// description; with several, the description (or the URL when it is
// empty) is the label, suffixed with the server's index on a repeat.
// This only records what the document declares; the Rust emitter picks
// the base-URL strategy from the number of entries.
func extractServers(doc *openapi3.T) map[string]string {
	out := map[string]string{}
	if len(doc.Servers) == 0 {
		return out
	}
	if len(doc.Servers) == 1 {
		out[""] = doc.Servers[0].URL
		return out
	}
	for i, srv := range doc.Servers {
		label := srv.Description
		if label == "" {
			label = srv.URL
		}
		if _, exists := out[label]; exists {
			label = label + "_" + itoa(i)
		}
		out[label] = srv.URL
	}
	return out
}

func extractDocsURL(doc *openapi3.T) string {
	if doc.ExternalDocs != nil {
		return doc.ExternalDocs.URL
	}
	return ""
}
