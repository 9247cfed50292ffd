package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Resolver finds the address of the client behind a request. Forwarding
// headers are honoured only when listed as trusted, so a client talking to
// the server directly cannot spoof its address in the logs.
type Resolver struct {
	headers []string
}

// New creates a Resolver that trusts headers in the given order, e.g.
// "CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP". Without headers only
// RemoteAddr is used.
func New(headers ...string) *Resolver {
	trusted := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			trusted = append(trusted, http.CanonicalHeaderKey(h))
		}
	}
	return &Resolver{headers: trusted}
}

// NewFromConfig creates a Resolver trusting cfg.TrustedHeaders.
func NewFromConfig(cfg Config) *Resolver {
	return New(strings.Split(cfg.TrustedHeaders, ",")...)
}

// IP returns the normalized client address, or "" when none is valid.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For lists the original client first.
		for candidate := range strings.SplitSeq(v, ",") {
			if ip := normalize(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
