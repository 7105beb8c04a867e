package extractor

import "testing"

func TestEnvVarNaming(t *testing.T) {
	e := &SecurityExtractor{serviceName: "Plaid"}
	tests := []struct {
		field, want string
	}{
		{"clientId", "PLAID_CLIENT_ID"},
		{"PLAID_SECRET", "PLAID_SECRET"},
	}
	for _, tt := range tests {
		got := e.envVar(tt.field)
		if got != tt.want {
			t.Errorf("envVar(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}
