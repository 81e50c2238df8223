package proxyaddr

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnrecognized is returned when no host/port pair can be identified in the input.
var ErrUnrecognized = errors.New("proxy format not recognized")

// Proxy is the structured form of a user-supplied proxy credential string.
// Host and Port are always set on a successful parse; Username and Password
// stay empty when the input carries no credentials.
type Proxy struct {
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

func (p *Proxy) HasAuth() bool {
	return p.Username != ""
}

func (p *Proxy) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// Parse converts a free-form proxy string into a Proxy. Supported forms:
//
//	host:port
//	host:port:user:pass
//	user:pass:host:port
//	user:pass@host:port
//	host:port@user:pass
//
// with an optional scheme prefix (http://, https://, socks4://, socks5://;
// bare socks:// normalizes to socks5). Passwords containing ':' only parse
// reliably in the '@'-delimited forms, or when the host/port pair leads.
func Parse(input string) (*Proxy, error) {
	raw := strings.TrimSpace(input)

	scheme := "http"
	if idx := strings.Index(raw, "://"); idx >= 0 {
		normalized, err := normalizeScheme(raw[:idx])
		if err != nil {
			return nil, err
		}
		scheme = normalized
		raw = raw[idx+3:]
	}

	if raw == "" {
		return nil, ErrUnrecognized
	}

	if idx := strings.Index(raw, "@"); idx >= 0 {
		if proxy, err := parseWithSeparator(scheme, raw[:idx], raw[idx+1:]); err == nil {
			return proxy, nil
		}
		// Neither side of the '@' was an address, so it is part of a
		// credential. Fall through to the colon-delimited rules.
	}

	return parseColonForm(scheme, raw)
}

// parseWithSeparator handles user:pass@host:port and host:port@user:pass.
// The side that parses as a (host-like, port-like) pair is the address side;
// the left side wins when both qualify.
func parseWithSeparator(scheme, left, right string) (*Proxy, error) {
	if host, port, ok := splitHostPort(left); ok {
		user, pass := splitCredentials(right)
		return &Proxy{Type: scheme, Host: host, Port: port, Username: user, Password: pass}, nil
	}

	fields := strings.Split(right, ":")
	if len(fields) != 2 || !isPlainHost(fields[0]) {
		return nil, ErrUnrecognized
	}
	port, ok := parsePort(fields[1])
	if !ok {
		return nil, ErrUnrecognized
	}
	user, pass := splitCredentials(left)
	return &Proxy{Type: scheme, Host: fields[0], Port: port, Username: user, Password: pass}, nil
}

// parseColonForm handles the purely colon-delimited orderings. With four or
// more fields the ordering is decided by testing which end of the string
// carries the (host-like, port-like) pair; the leading pair wins ties, and
// host:port:user:pass is the fallback when neither end is unambiguous.
func parseColonForm(scheme, raw string) (*Proxy, error) {
	fields := strings.Split(raw, ":")

	switch {
	case len(fields) == 2:
		host := fields[0]
		port, ok := parsePort(fields[1])
		if !ok || !isPlainHost(host) {
			return nil, fmt.Errorf("%w: %q", ErrUnrecognized, raw)
		}
		return &Proxy{Type: scheme, Host: host, Port: port}, nil

	case len(fields) >= 4:
		last := len(fields) - 1

		if isHostLike(fields[0]) {
			if port, ok := parsePort(fields[1]); ok {
				// host:port:user:pass..., password takes the remainder greedily
				return &Proxy{
					Type:     scheme,
					Host:     fields[0],
					Port:     port,
					Username: fields[2],
					Password: strings.Join(fields[3:], ":"),
				}, nil
			}
		}

		if isHostLike(fields[last-1]) {
			if port, ok := parsePort(fields[last]); ok {
				// user:pass...:host:port
				return &Proxy{
					Type:     scheme,
					Host:     fields[last-1],
					Port:     port,
					Username: fields[0],
					Password: strings.Join(fields[1:last-1], ":"),
				}, nil
			}
		}

		// Neither end qualifies cleanly, fall back to host:port:user:pass.
		port, ok := parsePort(fields[1])
		if !ok || !isPlainHost(fields[0]) {
			return nil, fmt.Errorf("%w: %q", ErrUnrecognized, raw)
		}
		return &Proxy{
			Type:     scheme,
			Host:     fields[0],
			Port:     port,
			Username: fields[2],
			Password: strings.Join(fields[3:], ":"),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognized, raw)
	}
}

// Format renders a Proxy back into scheme://[user:pass@]host:port form.
// Re-parsing the output yields the same host/port/user/pass tuple.
func Format(p *Proxy) string {
	scheme := p.Type
	if scheme == "" {
		scheme = "http"
	}
	if p.HasAuth() {
		return fmt.Sprintf("%s://%s:%s@%s:%d", scheme, p.Username, p.Password, p.Host, p.Port)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, p.Host, p.Port)
}

func normalizeScheme(scheme string) (string, error) {
	switch strings.ToLower(scheme) {
	case "http":
		return "http", nil
	case "https":
		return "https", nil
	case "socks4":
		return "socks4", nil
	case "socks5", "socks":
		return "socks5", nil
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrUnrecognized, scheme)
	}
}

func splitCredentials(s string) (user, pass string) {
	if idx := strings.Index(s, ":"); idx >= 0 {
		return s[:idx], s[idx+1:]
	}
	return s, ""
}

func splitHostPort(s string) (string, int, bool) {
	fields := strings.Split(s, ":")
	if len(fields) != 2 || !isHostLike(fields[0]) {
		return "", 0, false
	}
	port, ok := parsePort(fields[1])
	if !ok {
		return "", 0, false
	}
	return fields[0], port, true
}

func parsePort(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return 0, false
	}
	return port, true
}

var (
	hostnameRegex  = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)+$`)
	plainHostRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// isHostLike reports whether the token is unambiguously an address: a
// dotted-quad IPv4 or a dotted hostname with no leading/trailing hyphens.
// Single labels are excluded so usernames do not qualify.
func isHostLike(s string) bool {
	if IsIPv4(s) {
		return true
	}
	return hostnameRegex.MatchString(s)
}

// isPlainHost is the lenient check used where the ordering is already known.
func isPlainHost(s string) bool {
	return plainHostRegex.MatchString(s)
}

// IsIPv4 reports whether s is a raw dotted-quad IPv4 address.
func IsIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil && strings.Count(s, ".") == 3
}
