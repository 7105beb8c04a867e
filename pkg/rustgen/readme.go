package rustgen

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/libninjago/libninja/pkg/config"
	"github.com/libninjago/libninja/pkg/hir"
	"github.com/libninjago/libninja/pkg/naming"
)

// readmeTemplate is free-text prose, not Rust source, so it's rendered
// through text/template rather than the Tokens buffer the rest of this
// package uses for code. FuncMap construction follows the teacher's
// golang generator (pkg/generator/golang/generator.go), including
// merging in sprig's FuncMap for casing helpers.
const readmeTemplate = `# {{ .PackageName }}

Generated Rust client for {{ .ServiceName }}.

` + "```" + `toml
[dependencies]
{{ .PackageName }} = "{{ .Version }}"
` + "```" + `

## Example

` + "```" + `rust
#[tokio::main]
async fn main() {
{{- if .FirstOp }}
    let client = Client::from_env();
    let result = client.{{ .FirstOp }}().await.unwrap();
{{- else }}
    let _client = Client::from_env();
{{- end }}
}
` + "```" + `

{{ .RecordCount }} model{{ if ne .RecordCount 1 }}s{{ end }}, {{ .OperationCount }} operation{{ if ne .OperationCount 1 }}s{{ end }}.
`

type readmeData struct {
	PackageName    string
	ServiceName    string
	Version        string
	FirstOp        string
	RecordCount    int
	OperationCount int
}

// renderReadme builds the crate's README.md, per spec.md §6's output
// contract for a complete, publishable crate. Unlike the code emitted
// elsewhere in this package, README prose isn't fed through rustfmt.
func renderReadme(spec *hir.HirSpec, cfg config.Client) (string, error) {
	pkg := cfg.PackageName
	if pkg == "" {
		pkg = naming.SanitizeFilename(cfg.Name)
	}
	v := cfg.Version
	if v == "" {
		v = "0.1.0"
	}
	var firstOp string
	if len(spec.Operations) > 0 {
		firstOp = naming.SanitizeIdent(spec.Operations[0].Name)
	}
	data := readmeData{
		PackageName:    pkg,
		ServiceName:    naming.SanitizeStruct(cfg.Name),
		Version:        v,
		FirstOp:        firstOp,
		RecordCount:    len(spec.Schemas()),
		OperationCount: len(spec.Operations),
	}

	funcMap := sprig.FuncMap()
	tmpl, err := template.New("README").Funcs(funcMap).Parse(readmeTemplate)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
