package geo

import (
	"context"
	"net"
	"regexp"
	"sync"
	"time"

	"proxyvet/internal/support"

	"github.com/charmbracelet/log"
	"github.com/oschwald/geoip2-golang"
	"golang.org/x/sync/singleflight"
)

// Info is the GeoLite-derived enrichment for one proxy host. Zero values mean
// the databases were unavailable or the host did not resolve.
type Info struct {
	Country       string
	Organization  string
	EstimatedType string // ISP, Datacenter, Residential
}

var (
	countryDB *geoip2.Reader
	asnDB     *geoip2.Reader
	openOnce  sync.Once

	lookupGroup singleflight.Group

	datacenterRegex  = regexp.MustCompile(`(?i)(amazon|google|microsoft|digitalocean|linode|hetzner|ovh|vultr|ibm|alibaba|tencent|cloudflare|rackspace|hostinger|upcloud|azure|gcp|aws|hosting|server|cloud)`)
	residentialRegex = regexp.MustCompile(`(?i)(dyn|pool|dsl|adsl|cable|ppp|cust|dhcp|mobile|wireless)`)
	ispRegex         = regexp.MustCompile(`(?i)(isp|broadband|telecom|communications|networks|carrier)`)
)

func openDatabases() {
	openOnce.Do(func() {
		countryPath := support.GetEnv("GEOLITE_COUNTRY_DB", "data/GeoLite2-Country.mmdb")
		asnPath := support.GetEnv("GEOLITE_ASN_DB", "data/GeoLite2-ASN.mmdb")

		var err error
		if countryDB, err = geoip2.Open(countryPath); err != nil {
			countryDB = nil
			log.Debug("GeoLite country database unavailable", "path", countryPath, "error", err)
		}
		if asnDB, err = geoip2.Open(asnPath); err != nil {
			asnDB = nil
			log.Debug("GeoLite ASN database unavailable", "path", asnPath, "error", err)
		}
	})
}

// Lookup enriches a proxy host with country and network-type information.
// Concurrent lookups for the same host collapse into one.
func Lookup(host string) Info {
	openDatabases()

	result, _, _ := lookupGroup.Do(host, func() (any, error) {
		return lookupHost(host), nil
	})

	info, _ := result.(Info)
	return info
}

func lookupHost(host string) Info {
	ip := net.ParseIP(host)
	if ip == nil {
		resolved, err := resolveFirstIPv4(host)
		if err != nil {
			return Info{}
		}
		ip = resolved
	}

	var info Info

	if countryDB != nil {
		if record, err := countryDB.Country(ip); err == nil {
			info.Country = record.Country.Names["en"]
		}
	}

	if asnDB != nil {
		if record, err := asnDB.ASN(ip); err == nil {
			info.Organization = record.AutonomousSystemOrganization
			info.EstimatedType = ClassifyOrganization(record.AutonomousSystemOrganization)
		}
	}

	return info
}

func resolveFirstIPv4(host string) (net.IP, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	addrs, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil || len(addrs) == 0 {
		return nil, err
	}
	return addrs[0], nil
}

// ClassifyOrganization maps an ASN organization name onto the coarse
// Datacenter/Residential/ISP buckets.
func ClassifyOrganization(org string) string {
	if org == "" {
		return ""
	}

	switch {
	case datacenterRegex.MatchString(org):
		return "Datacenter"
	case ispRegex.MatchString(org):
		return "ISP"
	case residentialRegex.MatchString(org):
		return "Residential"
	default:
		return ""
	}
}
