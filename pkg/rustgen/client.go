package rustgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/libninjago/libninja/pkg/hir"
	"github.com/libninjago/libninja/pkg/naming"
)

// RenderClient lowers the client Class and its constructors, per
// spec.md §4.7's Client class bullet: a struct named Client holding an
// owned httpclient::Client and, if security is present, an
// authentication field, plus from_env, new_with and (with security only)
// with_auth constructors.
func RenderClient(spec *hir.HirSpec, serviceName string) *Tokens {
	t := NewTokens()
	auth := HasAuth(spec.Security)

	t.Push("#[derive(Clone)]")
	t.Push("pub struct Client {")
	t.Push("    pub(crate) client: httpclient::Client,")
	if auth {
		t.Push("    pub(crate) authentication: Authentication,")
	}
	t.Push("}")
	t.Blank()

	t.Push("impl Client {")
	t.Pushf("    pub fn from_env() -> Self {")
	t.Pushf("        %s", baseURLExpr(spec, serviceName))
	if auth {
		t.Push("        Self { client: httpclient::Client::new().base_url(&base_url), authentication: Authentication::from_env() }")
	} else {
		t.Push("        Self { client: httpclient::Client::new().base_url(&base_url) }")
	}
	t.Push("    }")
	t.Blank()

	if auth {
		t.Push("    pub fn with_auth(authentication: Authentication) -> Self {")
		t.Pushf("        %s", baseURLExpr(spec, serviceName))
		t.Push("        Self { client: httpclient::Client::new().base_url(&base_url), authentication }")
		t.Push("    }")
		t.Blank()
		t.Push("    pub fn new_with(client: httpclient::Client, authentication: Authentication) -> Self {")
		t.Push("        Self { client, authentication }")
		t.Push("    }")
	} else {
		t.Push("    pub fn new_with(client: httpclient::Client) -> Self {")
		t.Push("        Self { client }")
		t.Push("    }")
	}
	t.Push("}")
	t.Blank()

	for _, op := range spec.Operations {
		renderConvenienceMethod(t, op)
		t.Blank()
	}

	return t
}

// baseURLExpr implements §6's server-selection env-var rule: a single
// server is hard-coded, zero servers reads {SERVICE}_BASE_URL, and
// multiple servers reads {SERVICE}_ENV to pick among the declared labels.
func baseURLExpr(spec *hir.HirSpec, serviceName string) string {
	prefix := envPrefix(serviceName)
	switch len(spec.Servers) {
	case 0:
		return fmt.Sprintf("let base_url = std::env::var(%q).expect(%q);",
			prefix+"_BASE_URL", fmt.Sprintf("missing environment variable %s_BASE_URL", prefix))
	case 1:
		for _, url := range spec.Servers {
			return fmt.Sprintf("let base_url: String = %q.to_string();", url)
		}
	}
	return fmt.Sprintf("let base_url = crate::server_url_from_env(%q);", prefix+"_ENV")
}

// renderServerURLFromEnv emits the free function multi-server
// baseURLExpr calls: it reads the {SERVICE}_ENV variable and matches it
// against the declared server labels, per spec.md §6's "many servers"
// branch of the server-selection rule.
func renderServerURLFromEnv(spec *hir.HirSpec) *Tokens {
	t := NewTokens()
	t.Push("fn server_url_from_env(var_name: &str) -> String {")
	t.Push("    let value = std::env::var(var_name).expect(var_name);")
	t.Push("    match value.as_str() {")
	for _, label := range sortedServerLabels(spec) {
		t.Pushf("        %q => %q.to_string(),", label, spec.Servers[label])
	}
	t.Push("        other => panic!(\"unrecognized {}: {}\", var_name, other),")
	t.Push("    }")
	t.Push("}")
	return t
}

func sortedServerLabels(spec *hir.HirSpec) []string {
	labels := make([]string, 0, len(spec.Servers))
	for label := range spec.Servers {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func envPrefix(serviceName string) string {
	return strings.ToUpper(naming.SanitizeIdent(serviceName))
}

// renderConvenienceMethod implements §4.7's convenience-method bullet: a
// method on the client that constructs the request struct from required
// parameters only.
func renderConvenienceMethod(t *Tokens, op hir.Operation) {
	renderDoc(t, op.Doc, "    ")
	ident := naming.SanitizeIdent(op.Name)
	reqName := naming.SanitizeStruct(op.Name) + "Request"
	promote := ShouldPromoteRequired(op)

	var argList, fieldInit []string
	if promote {
		reqStructName := naming.SanitizeStruct(op.Name) + "Required"
		argList = append(argList, "args: request::"+reqStructName)
		for _, p := range op.Parameters {
			fi := naming.SanitizeIdent(p.Name)
			if p.Optional {
				fieldInit = append(fieldInit, fmt.Sprintf("%s: None", fi))
			} else {
				fieldInit = append(fieldInit, fmt.Sprintf("%s: args.%s.to_owned()", fi, fi))
			}
		}
	} else {
		for _, p := range op.RequiredParameters() {
			ai := naming.SanitizeIdent(p.Name)
			argList = append(argList, fmt.Sprintf("%s: %s", ai, RustRefType(p.Ty)))
		}
		for _, p := range op.Parameters {
			fi := naming.SanitizeIdent(p.Name)
			if p.Optional {
				fieldInit = append(fieldInit, fmt.Sprintf("%s: None", fi))
			} else {
				fieldInit = append(fieldInit, fmt.Sprintf("%s: %s.to_owned()", fi, fi))
			}
		}
	}

	t.Pushf("    pub fn %s(&self, %s) -> request::%s {", ident, joinComma(argList), reqName)
	t.Pushf("        request::%s {", reqName)
	t.Push("            http_client: self,")
	for _, fi := range fieldInit {
		t.Pushf("            %s,", fi)
	}
	t.Push("        }")
	t.Push("    }")
}

