package support

import "regexp"

var ipRegex = regexp.MustCompile(
	`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b|` + // IPv4
		`\b(?:[A-Fa-f0-9]{1,4}:){7}[A-Fa-f0-9]{1,4}\b`) // IPv6

// FindIP identifies the first IP address (IPv4 or IPv6) in a given string.
// Egress-IP lookup services wrap the address in anything from plain text to
// JSON, so this is a scan rather than a parse.
func FindIP(input string) string {
	return ipRegex.FindString(input)
}
