package rustgen

import (
	"fmt"

	"github.com/libninjago/libninja/pkg/hir"
	"github.com/libninjago/libninja/pkg/naming"
)

// HasAuth reports whether spec declares any non-trivial security.
func HasAuth(strategies []hir.AuthStrategy) bool {
	for _, s := range strategies {
		if s.Kind != hir.AuthStrategyNone {
			return true
		}
	}
	return false
}

// RenderAuthentication lowers spec's security strategies into the
// Authentication tagged variant, per spec.md §4.7's Authentication type
// bullet: one enum variant per strategy, a from_env constructor that
// panics on a missing required var, and (for OAuth2) an oauth2(access,
// refresh) constructor wiring the shared middleware.
func RenderAuthentication(serviceName string, strategies []hir.AuthStrategy) *Tokens {
	t := NewTokens()
	if !HasAuth(strategies) {
		// No declared security scheme, but every operation's send() still
		// calls self.http_client.authenticate(r) unconditionally, so the
		// method must exist either way; it's just a no-op here.
		t.Push("impl super::Client {")
		t.Push("    pub(crate) fn authenticate<'a>(&self, r: httpclient::RequestBuilder<'a>) -> httpclient::RequestBuilder<'a> {")
		t.Push("        r")
		t.Push("    }")
		t.Push("}")
		return t
	}

	t.Push("#[derive(Clone)]")
	t.Push("pub enum Authentication {")
	for _, s := range strategies {
		variant := authVariantName(s)
		switch s.Kind {
		case hir.AuthStrategyToken:
			t.Pushf("    %s {", variant)
			for _, f := range s.Fields {
				t.Pushf("        %s: String,", naming.SanitizeIdent(f.Name))
			}
			t.Push("    },")
		case hir.AuthStrategyOAuth2:
			t.Pushf("    %s { access: String, refresh: Option<String> },", variant)
		}
	}
	t.Push("}")
	t.Blank()

	renderAuthFromEnv(t, serviceName, strategies)
	t.Blank()
	renderAuthOAuth2Constructor(t, strategies)
	t.Blank()
	renderAuthenticateImpl(t, strategies)
	return t
}

func authVariantName(s hir.AuthStrategy) string {
	switch s.Kind {
	case hir.AuthStrategyOAuth2:
		return "OAuth2"
	default:
		if s.Name == "" {
			return "Token"
		}
		return naming.SanitizeStruct(s.Name)
	}
}

func renderAuthFromEnv(t *Tokens, serviceName string, strategies []hir.AuthStrategy) {
	t.Push("impl Authentication {")
	t.Push("    pub fn from_env() -> Self {")
	for i, s := range strategies {
		if s.Kind != hir.AuthStrategyToken {
			continue
		}
		if i > 0 {
			t.Blank()
		}
		t.Pushf("        Authentication::%s {", authVariantName(s))
		for _, f := range s.Fields {
			ident := naming.SanitizeIdent(f.Name)
			t.Pushf("            %s: std::env::var(%q).expect(%q),", ident, f.EnvVar,
				fmt.Sprintf("missing environment variable %s", f.EnvVar))
		}
		t.Push("        }")
	}
	t.Push("    }")
	t.Push("}")
}

func renderAuthOAuth2Constructor(t *Tokens, strategies []hir.AuthStrategy) {
	hasOAuth2 := false
	for _, s := range strategies {
		if s.Kind == hir.AuthStrategyOAuth2 {
			hasOAuth2 = true
		}
	}
	if !hasOAuth2 {
		return
	}
	t.Push("impl Authentication {")
	t.Push("    pub fn oauth2(access: String, refresh: Option<String>) -> Self {")
	t.Push("        Authentication::OAuth2 { access, refresh }")
	t.Push("    }")
	t.Push("}")
}

func renderAuthenticateImpl(t *Tokens, strategies []hir.AuthStrategy) {
	t.Push("impl super::Client {")
	t.Push("    pub(crate) fn authenticate<'a>(&self, mut r: httpclient::RequestBuilder<'a>) -> httpclient::RequestBuilder<'a> {")
	t.Push("        match &self.authentication {")
	for _, s := range strategies {
		variant := authVariantName(s)
		switch s.Kind {
		case hir.AuthStrategyToken:
			fieldNames := make([]string, 0, len(s.Fields))
			for _, f := range s.Fields {
				fieldNames = append(fieldNames, naming.SanitizeIdent(f.Name))
			}
			t.Pushf("            Authentication::%s { %s } => {", variant, joinComma(fieldNames))
			for _, f := range s.Fields {
				ident := naming.SanitizeIdent(f.Name)
				switch f.Location {
				case hir.AuthBasic:
					t.Pushf("                r = r.basic_auth(%s);", ident)
				case hir.AuthBearer:
					t.Pushf("                r = r.bearer_auth(%s);", ident)
				case hir.AuthQuery:
					t.Pushf("                r = r.query(%q, %s);", f.Key, ident)
				case hir.AuthCookie:
					t.Pushf("                r = r.cookie(%q, %s);", f.Key, ident)
				default:
					t.Pushf("                r = r.header(%q, %s);", f.Key, ident)
				}
			}
			t.Push("            }")
		case hir.AuthStrategyOAuth2:
			t.Pushf("            Authentication::%s { access, .. } => {", variant)
			t.Push("                r = r.bearer_auth(access);")
			t.Push("            }")
		}
	}
	t.Push("        }")
	t.Push("        r")
	t.Push("    }")
	t.Push("}")
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
