package extractor

import "testing"

func TestMakeNameSynthesized(t *testing.T) {
	tests := []struct {
		method, path, want string
	}{
		{"GET", "/diffs/{id}", "get_diffs_by_id"},
		{"GET", "/user/{user_id}/account/{account_id}", "get_user_account_by_id"},
		{"POST", "/item/get", "post_item_get"},
	}
	for _, tt := range tests {
		got := makeName("", tt.method, tt.path)
		if got != tt.want {
			t.Errorf("makeName(%q, %q) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestMakeNameUsesOperationID(t *testing.T) {
	got := makeName("pets.list", "GET", "/pets")
	if got != "pets_list" {
		t.Errorf("makeName with operationId = %q, want %q", got, "pets_list")
	}
}
