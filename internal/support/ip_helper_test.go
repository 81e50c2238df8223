package support

import "testing"

func TestFindIP(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"203.0.113.5", "203.0.113.5"},
		{`{"ip":"203.0.113.5"}`, "203.0.113.5"},
		{"Client address: 203.0.113.5 connected via [2001:db8:0:0:0:0:0:1]", "203.0.113.5"},
		{"no address here", ""},
	}

	for _, tc := range tests {
		if got := FindIP(tc.input); got != tc.want {
			t.Fatalf("FindIP(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PROXYVET_TEST_ENV", "value")

	if got := GetEnv("PROXYVET_TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("GetEnv returned %q, want value", got)
	}
	if got := GetEnv("PROXYVET_TEST_ENV_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv returned %q, want fallback", got)
	}

	t.Setenv("PROXYVET_TEST_ENV_INT", "17")
	if got := GetEnvInt("PROXYVET_TEST_ENV_INT", 3); got != 17 {
		t.Fatalf("GetEnvInt returned %d, want 17", got)
	}
	if got := GetEnvInt("PROXYVET_TEST_ENV_MISSING", 3); got != 3 {
		t.Fatalf("GetEnvInt returned %d, want 3", got)
	}
}
