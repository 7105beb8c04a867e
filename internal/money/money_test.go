package money

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"1.50":   "1.5",
		"10":     "10",
		"0.1000": "0.1",
	}
	for in, want := range cases {
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeInvalid(t *testing.T) {
	if _, err := Normalize("not-a-number"); err == nil {
		t.Error("expected error for invalid literal")
	}
}

func TestEqual(t *testing.T) {
	eq, err := Equal("1.50", "1.5")
	if err != nil {
		t.Fatalf("Equal: %v", err)
	}
	if !eq {
		t.Error("expected 1.50 == 1.5")
	}

	eq, err = Equal("1.50", "2")
	if err != nil {
		t.Fatalf("Equal: %v", err)
	}
	if eq {
		t.Error("expected 1.50 != 2")
	}
}
