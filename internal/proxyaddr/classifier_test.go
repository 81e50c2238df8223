package proxyaddr

import "testing"

func TestLooksStatic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"raw ip", "203.0.113.5:8080", true},
		{"raw ip with auth", "203.0.113.5:8080:user:pass", true},
		{"rotating keyword short-circuits", "rotating-residential.smartproxy.com:8080", false},
		{"provider brand", "gate.oxylabs.io:7777:customer:pass", false},
		{"session credential", "user-session-abc123:pass@10.0.0.1:8080", false},
		{"geo-targeted credential", "customer-country-us:pass@pr.example.com:7000", false},
		{"datacenter prefix", "dc1.proxyhost.com:8080", true},
		{"server prefix", "server42.example.com:3128", true},
		{"vps prefix", "vps7.example.com:1080", true},
		{"static in hostname", "static.example.com:8080", true},
		{"dedicated in hostname", "dedicated.example.com:8080", true},
		{"plain hostname defaults to rotating", "proxy.example.com:8080", false},
		{"unparseable input", "not a proxy", false},
		{"keyword beats raw ip", "203.0.113.5:8080:customer-rotate:pass", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := LooksStatic(tc.input); got != tc.want {
				t.Fatalf("LooksStatic(%q) = %t, want %t", tc.input, got, tc.want)
			}
		})
	}
}

func TestLooksStaticExtraKeywords(t *testing.T) {
	input := "gateway.fastpool.net:8080"

	if LooksStatic(input) {
		t.Fatal("unknown hostname should default to not static")
	}
	if LooksStatic("dc3.fastpool.net:8080", "fastpool") {
		t.Fatal("extra keyword should short-circuit to not static")
	}
}
