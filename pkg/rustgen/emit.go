package rustgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/libninjago/libninja/pkg/config"
	"github.com/libninjago/libninja/pkg/ferr"
	"github.com/libninjago/libninja/pkg/hir"
	"github.com/libninjago/libninja/pkg/naming"
)

// Emit lowers spec into a full Rust client library tree rooted at
// cfg.Src(), per spec.md §6's output contract: src/lib.rs, src/model/*,
// src/request/*, plus a Cargo.toml. Files are opened, written, and
// closed one at a time — never interleaved — per spec.md §5's resource
// model; on a write failure the partially-written tree is left in place,
// since the pipeline is idempotent and overwrites cleanly on re-run.
func Emit(spec *hir.HirSpec, cfg config.Client) error {
	root := cfg.Src()
	if err := os.MkdirAll(root, 0o755); err != nil {
		return &ferr.IOError{Path: root, Err: err}
	}

	files, err := BuildFiles(spec, cfg)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, rel := range names {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return &ferr.IOError{Path: path, Err: err}
		}
		formatted := files[rel]
		if strings.HasSuffix(rel, ".rs") {
			var fmtErr error
			formatted, fmtErr = Format(rel, files[rel])
			if fmtErr != nil {
				return fmtErr
			}
		}
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			return &ferr.IOError{Path: path, Err: err}
		}
	}
	return nil
}

// BuildFiles renders every output file's unformatted source, keyed by
// path relative to cfg.Src(). Exported so the pipeline and tests can
// inspect generated content without touching a filesystem.
func BuildFiles(spec *hir.HirSpec, cfg config.Client) (map[string]string, error) {
	out := map[string]string{}

	cargoToml, err := renderCargoToml(cfg)
	if err != nil {
		return nil, err
	}
	out["Cargo.toml"] = cargoToml

	var modelMods, requestMods []string
	seenModels := map[string]string{}
	for _, rec := range spec.Schemas() {
		name := naming.SanitizeFilename(rec.Name)
		if prior, ok := seenModels[name]; ok && prior != rec.Name {
			return nil, &ferr.NamingError{
				Original: rec.Name,
				Reason:   fmt.Sprintf("sanitizes to %q, colliding with schema %q", name, prior),
			}
		}
		seenModels[name] = rec.Name
		modelMods = append(modelMods, name)
		out[filepath.Join("src", "model", ModelFileName(rec))] = RenderRecord(rec, cfg).String()
	}
	seenRequests := map[string]string{}
	for _, op := range spec.Operations {
		name := naming.SanitizeFilename(op.Name)
		if prior, ok := seenRequests[name]; ok && prior != op.Name {
			return nil, &ferr.NamingError{
				Original: op.Name,
				Reason:   fmt.Sprintf("sanitizes to %q, colliding with operation %q", name, prior),
			}
		}
		seenRequests[name] = op.Name
		requestMods = append(requestMods, name)
		out[filepath.Join("src", "request", RequestFileName(op))] = RenderOperation(op).String()
	}

	out[filepath.Join("src", "model", "mod.rs")] = renderModRs(modelMods)
	out[filepath.Join("src", "request", "mod.rs")] = renderModRs(requestMods)

	codecs := neededCodecs(spec)
	if len(codecs) > 0 {
		out[filepath.Join("src", "serde.rs")] = renderSerdeModule(codecs)
	}

	out[filepath.Join("src", "lib.rs")] = renderLibRs(spec, cfg, len(codecs) > 0)

	readme, err := renderReadme(spec, cfg)
	if err != nil {
		return nil, err
	}
	out["README.md"] = readme

	return out, nil
}

func renderModRs(mods []string) string {
	sort.Strings(mods)
	t := NewTokens()
	for _, m := range mods {
		t.Pushf("mod %s;", m)
		t.Pushf("pub use %s::*;", m)
	}
	return t.String()
}

func renderLibRs(spec *hir.HirSpec, cfg config.Client, hasCodecs bool) string {
	t := NewTokens()
	t.Push("pub mod model;")
	t.Push("pub mod request;")
	if hasCodecs {
		t.Push("mod serde;")
	}
	t.Blank()
	t.Push("pub use model::*;")
	t.Blank()

	t.Raw(RenderClient(spec, cfg.Name).String())
	t.Blank()
	if len(spec.Servers) > 1 {
		t.Raw(renderServerURLFromEnv(spec).String())
		t.Blank()
	}
	t.Raw(RenderAuthentication(cfg.Name, spec.Security).String())
	t.Blank()
	t.Raw(renderHTTPClientSingleton(spec, cfg.Name).String())
	if hasOAuth2(spec.Security) {
		t.Blank()
		t.Raw(renderOAuth2Singleton().String())
	}
	return t.String()
}

func hasOAuth2(strategies []hir.AuthStrategy) bool {
	for _, s := range strategies {
		if s.Kind == hir.AuthStrategyOAuth2 {
			return true
		}
	}
	return false
}

// renderHTTPClientSingleton emits a process-wide HTTP-client singleton
// initialized lazily from the server strategy, with an overridable
// initializer escape hatch, per spec.md §4.7's Shared singletons bullet
// and §9's design note on the emitted code's only globals.
func renderHTTPClientSingleton(spec *hir.HirSpec, serviceName string) *Tokens {
	t := NewTokens()
	t.Push("static HTTP_CLIENT: std::sync::OnceLock<httpclient::Client> = std::sync::OnceLock::new();")
	t.Blank()
	t.Push("/// Overrides the lazily-initialized process-wide HTTP client. Must be")
	t.Push("/// called before the first request, or it has no effect.")
	t.Push("pub fn init_http_client(client: httpclient::Client) {")
	t.Push("    let _ = HTTP_CLIENT.set(client);")
	t.Push("}")
	t.Blank()
	t.Push("fn http_client() -> &'static httpclient::Client {")
	t.Pushf("    HTTP_CLIENT.get_or_init(|| {")
	t.Pushf("        %s", baseURLExpr(spec, serviceName))
	t.Push("        httpclient::Client::new().base_url(&base_url)")
	t.Push("    })")
	t.Push("}")
	return t
}

func renderOAuth2Singleton() *Tokens {
	t := NewTokens()
	t.Push("static OAUTH2_FLOW: std::sync::OnceLock<httpclient::oauth2::OAuth2Flow> = std::sync::OnceLock::new();")
	t.Blank()
	t.Push("fn oauth2_flow() -> &'static httpclient::oauth2::OAuth2Flow {")
	t.Push("    OAUTH2_FLOW.get_or_init(httpclient::oauth2::OAuth2Flow::from_env)")
	t.Push("}")
	return t
}

func renderCargoToml(cfg config.Client) (string, error) {
	v := cfg.Version
	if v == "" {
		v = "0.1.0"
	}
	if _, err := semver.NewVersion(v); err != nil {
		return "", fmt.Errorf("rustgen: invalid package version %q: %w", v, err)
	}
	pkg := cfg.PackageName
	if pkg == "" {
		pkg = naming.SanitizeFilename(cfg.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[package]\n")
	fmt.Fprintf(&b, "name = %q\n", pkg)
	fmt.Fprintf(&b, "version = %q\n", v)
	fmt.Fprintf(&b, "edition = \"2021\"\n\n")
	fmt.Fprintf(&b, "[dependencies]\n")
	fmt.Fprintf(&b, "httpclient = \"0.19\"\n")
	fmt.Fprintf(&b, "serde = { version = \"1\", features = [\"derive\"] }\n")
	fmt.Fprintf(&b, "serde_json = \"1\"\n")
	fmt.Fprintf(&b, "chrono = { version = \"0.4\", features = [\"serde\"] }\n")
	fmt.Fprintf(&b, "rust_decimal = { version = \"1\", features = [\"serde-str\"] }\n")
	if cfg.Ormlite {
		fmt.Fprintf(&b, "ormlite = { version = \"0.18\", optional = true }\n")
	}
	if cfg.Fake {
		fmt.Fprintf(&b, "fake = { version = \"2\", features = [\"derive\"], optional = true }\n")
	}
	return b.String(), nil
}
