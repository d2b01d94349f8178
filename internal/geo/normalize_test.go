package geo

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Réunion ", "reunion"},
		{"reunion", "reunion"},
		{"  CA du Pays Basque", "ca du pays basque"},
		{"Métropole d'Aix-Marseille-Provence", "metropole d'aix-marseille-provence"},
		{"", ""},
		{"ÎLE-DE-FRANCE", "ile-de-france"},
	}
	for _, c := range cases {
		if got := NormalizeName(c.in); got != c.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{"Réunion ", "Saône-et-Loire", "CC Cœur de Savoie", "déjà normalisé"}
	for _, in := range inputs {
		once := NormalizeName(in)
		twice := NormalizeName(once)
		if once != twice {
			t.Errorf("NormalizeName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeNameAccentInsensitive(t *testing.T) {
	if NormalizeName("Réunion ") != NormalizeName("reunion") {
		t.Error("accented and plain spellings should normalize to the same key")
	}
}
