package geo

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/charmbracelet/log"
	"github.com/oschwald/geoip2-golang"
)

// Resolver answers country lookups against a GeoLite2 database. It is
// optional wiring: when no database path is configured the service runs
// without enrichment and a nil *Resolver is safe to call.
type Resolver struct {
	countryDB *geoip2.Reader
}

// Open loads the GeoLite2 country database from path. An empty path returns
// a nil resolver without error.
func Open(path string) (*Resolver, error) {
	if path == "" {
		return nil, nil
	}

	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geo: open country database: %w", err)
	}

	log.Info("GeoLite country database loaded", "path", path)
	return &Resolver{countryDB: reader}, nil
}

// Country returns the ISO country code for the address, or "" when the
// resolver is disabled or the address is unknown.
func (r *Resolver) Country(addr netip.Addr) string {
	if r == nil || r.countryDB == nil {
		return ""
	}

	record, err := r.countryDB.Country(net.IP(addr.AsSlice()))
	if err != nil || record == nil {
		return ""
	}
	return record.Country.IsoCode
}

// Close releases the underlying database reader.
func (r *Resolver) Close() error {
	if r == nil || r.countryDB == nil {
		return nil
	}
	return r.countryDB.Close()
}
