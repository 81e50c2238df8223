package proxyaddr

import (
	"regexp"
	"strings"
)

// Substrings that mark a proxy string as belonging to a rotating or
// residential pool. Provider brands are included because their gateway
// hostnames rarely say "rotating" outright.
var rotatingKeywords = []string{
	"rotating",
	"rotate",
	"residential",
	"resi",
	"sticky",
	"session",
	"backconnect",
	"country-",
	"city-",
	"state-",
	"smartproxy",
	"brightdata",
	"luminati",
	"oxylabs",
	"soax",
	"iproyal",
	"geonode",
	"packetstream",
	"webshare",
	"dataimpulse",
	"proxy-cheap",
}

var datacenterHostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^dc\d+\.`),
	regexp.MustCompile(`^server\d+\.`),
	regexp.MustCompile(`^vps\d+\.`),
	regexp.MustCompile(`^node\d+\.`),
	regexp.MustCompile(`static`),
	regexp.MustCompile(`dedicated`),
	regexp.MustCompile(`datacenter`),
}

// LooksStatic reports whether a proxy string points at a static/datacenter
// egress rather than a rotating pool. Rotating indicators short-circuit to
// false even when the host would otherwise look static. Unparseable input
// and ambiguous hostnames also classify as not static.
func LooksStatic(input string, extraRotating ...string) bool {
	lowered := strings.ToLower(input)

	for _, keyword := range rotatingKeywords {
		if strings.Contains(lowered, keyword) {
			return false
		}
	}
	for _, keyword := range extraRotating {
		if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
			return false
		}
	}

	parsed, err := Parse(input)
	if err != nil {
		return false
	}

	if IsIPv4(parsed.Host) {
		return true
	}

	host := strings.ToLower(parsed.Host)
	for _, pattern := range datacenterHostPatterns {
		if pattern.MatchString(host) {
			return true
		}
	}

	return false
}
