package naming

import "testing"

func TestSanitizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"SdAddress.contractor1099", "sd_address_contractor1099"},
		{"helloWorld", "hello_world"},
		{"type", "type_"},
		{"self", "self_"},
		{"+1", "plus_one"},
		{"-1", "minus_one"},
		{"user_id", "user_id"},
		{"123abc", "_123abc"},
	}
	for _, tt := range tests {
		got := SanitizeIdent(tt.input)
		if got != tt.expected {
			t.Errorf("SanitizeIdent(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeIdentIdempotent(t *testing.T) {
	inputs := []string{"SdAddress.contractor1099", "helloWorld", "type", "+1", "user_id"}
	for _, in := range inputs {
		once := SanitizeIdent(in)
		twice := SanitizeIdent(once)
		if once != twice {
			t.Errorf("SanitizeIdent not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeIdentNeverEmpty(t *testing.T) {
	inputs := []string{"", "_", "---", "..."}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r == nil {
					if SanitizeIdent(in) == "" {
						t.Errorf("SanitizeIdent(%q) returned empty string without panicking", in)
					}
				}
			}()
			_ = SanitizeIdent(in)
		}()
	}
}

func TestSanitizeIdentEmptyResultPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for input that sanitizes to an empty identifier")
		}
	}()
	// a value with no alphanumeric character left after sanitization has
	// no legal identifier, a genuine authoring error in the source spec.
	_ = SanitizeIdent("\x00")
}

func TestSanitizeStruct(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"hello", "Hello"},
		{"helloWorld", "HelloWorld"},
		{"additionalProperties", "AdditionalProperties"},
		{"hello-world", "HelloWorld"},
		{"hello_world", "HelloWorld"},
		{"HELLO_WORLD", "HelloWorld"},
		{"type", "TypeStruct"},
		{"XMLHttpRequest", "XmlHttpRequest"},
	}
	for _, tt := range tests {
		if tt.input == "" {
			continue // empty input panics instead of returning a name
		}
		got := SanitizeStruct(tt.input)
		if got != tt.expected {
			t.Errorf("SanitizeStruct(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeStructIdempotent(t *testing.T) {
	inputs := []string{"helloWorld", "type", "HELLO_WORLD", "XMLHttpRequest"}
	for _, in := range inputs {
		once := SanitizeStruct(in)
		twice := SanitizeStruct(once)
		if once != twice {
			t.Errorf("SanitizeStruct not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestAnonymousArrayItemName(t *testing.T) {
	taken := map[string]bool{}
	isTaken := func(s string) bool { return taken[s] }

	name, ok := AnonymousArrayItemName("Users", "", isTaken)
	if !ok || name != "User" {
		t.Errorf("AnonymousArrayItemName(Users, \"\") = %q, %v; want User, true", name, ok)
	}

	name2, ok2 := AnonymousArrayItemName("Order", "item", isTaken)
	if !ok2 || name2 == "" {
		t.Errorf("AnonymousArrayItemName(Order, item) failed: %q, %v", name2, ok2)
	}
}

func TestAnonymousArrayItemNameAllCollideBailsOut(t *testing.T) {
	taken := map[string]bool{
		"Order": true, "OrdersItem": true, "ItemItem": true, "OrdersItemItem": true,
	}
	isTaken := func(s string) bool { return taken[s] }
	name, ok := AnonymousArrayItemName("Orders", "item", isTaken)
	if ok {
		t.Errorf("AnonymousArrayItemName(Orders, item) = %q, true; want bail-out when every candidate is taken", name)
	}
}
