package extractor

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/libninjago/libninja/pkg/hir"
	"github.com/libninjago/libninja/pkg/naming"
)

// SecurityExtractor compiles the document's components.securitySchemes
// into a list of hir.AuthStrategy, per spec.md §4.6.
type SecurityExtractor struct {
	ctx         *Context
	serviceName string
}

// NewSecurityExtractor constructs a SecurityExtractor bound to ctx.
// serviceName prefixes synthesized env-var names.
func NewSecurityExtractor(ctx *Context, serviceName string) *SecurityExtractor {
	return &SecurityExtractor{ctx: ctx, serviceName: serviceName}
}

// Extract walks every scheme declared under components.securitySchemes,
// in name order, and returns the compiled strategies. The document's
// security requirements are not consulted, so a declared scheme that no
// requirement references still yields a strategy. An empty return means
// NoAuth.
func (e *SecurityExtractor) Extract() []hir.AuthStrategy {
	if e.ctx.Doc.Components == nil || len(e.ctx.Doc.Components.SecuritySchemes) == 0 {
		return nil
	}
	schemes := e.ctx.Doc.Components.SecuritySchemes

	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)

	var oauth2 []hir.AuthStrategy
	var fields []hir.AuthField

	for _, name := range names {
		sr := schemes[name]
		if sr == nil || sr.Value == nil {
			continue
		}
		s := sr.Value
		switch s.Type {
		case "http":
			switch s.Scheme {
			case "basic":
				fields = append(fields, hir.AuthField{Name: name, EnvVar: e.envVar(name), Location: hir.AuthBasic})
			case "bearer":
				fields = append(fields, hir.AuthField{Name: name, EnvVar: e.envVar(name), Location: hir.AuthBearer})
			default:
				e.ctx.Warn(name, "unsupported http security scheme: "+s.Scheme)
			}
		case "apiKey":
			loc, key := apiKeyLocation(s)
			fields = append(fields, hir.AuthField{Name: name, EnvVar: e.envVar(name), Location: loc, Key: key})
		case "oauth2":
			oauth2 = append(oauth2, e.extractOAuth2(name, s))
		case "openIdConnect":
			e.ctx.Warn(name, "openIdConnect security scheme is not lowered")
		default:
			e.ctx.Warn(name, "unrecognized security scheme type: "+s.Type)
		}
	}

	var out []hir.AuthStrategy
	if len(fields) > 0 {
		out = append(out, hir.AuthStrategy{Kind: hir.AuthStrategyToken, Name: e.serviceName, Fields: fields})
	}
	out = append(out, oauth2...)
	return out
}

func apiKeyLocation(s *openapi3.SecurityScheme) (hir.AuthFieldLocation, string) {
	switch s.In {
	case "header":
		return hir.AuthHeader, s.Name
	case "query":
		return hir.AuthQuery, s.Name
	case "cookie":
		return hir.AuthCookie, s.Name
	default:
		return hir.AuthHeader, s.Name
	}
}

func (e *SecurityExtractor) extractOAuth2(name string, s *openapi3.SecurityScheme) hir.AuthStrategy {
	strategy := hir.AuthStrategy{Kind: hir.AuthStrategyOAuth2}
	if s.Flows == nil {
		return strategy
	}
	flow := s.Flows.AuthorizationCode
	if flow == nil {
		flow = s.Flows.Implicit
	}
	if flow != nil {
		strategy.AuthURL = flow.AuthorizationURL
	}
	exchangeFlow := s.Flows.AuthorizationCode
	if exchangeFlow == nil {
		exchangeFlow = s.Flows.ClientCredentials
	}
	if exchangeFlow == nil {
		exchangeFlow = s.Flows.Password
	}
	if exchangeFlow != nil {
		strategy.ExchangeURL = exchangeFlow.TokenURL
		strategy.RefreshURL = exchangeFlow.RefreshURL
		for scope := range exchangeFlow.Scopes {
			strategy.Scopes = append(strategy.Scopes, scope)
		}
		sort.Strings(strategy.Scopes)
	}
	return strategy
}

// envVar derives the default env-var name for a token field: screaming
// snake case of the field identifier, prefixed by the service name
// unless the identifier is already prefixed with it (spec.md §8: "Plaid
// with an already-prefixed field name PLAID_SECRET -> env var
// PLAID_SECRET (no double-prefix)").
func (e *SecurityExtractor) envVar(fieldName string) string {
	ident := naming.SanitizeIdent(fieldName)
	screaming := strings.ToUpper(ident)
	prefix := strings.ToUpper(naming.SanitizeIdent(e.serviceName))
	if strings.HasPrefix(screaming, prefix+"_") {
		return screaming
	}
	return prefix + "_" + screaming
}
