// Package addressing turns protocol addresses into identities and resolves
// command resource URIs into absolute, routable form.
//
// Everything here is pure: no lookups, no I/O. The Resolver type adds
// logging, metrics and a bounded history on top of ResolveCommandURI.
package addressing

import (
	"crypto/x509"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/spiffe/go-spiffe/v2/svid/x509svid"

	"github.com/sufield/lime/internal/domain"
)

// IdentityFromURI reads name@domain from the URI's user-info and host.
//
// The host must be a DNS name; empty hosts and IP literals fail with
// ErrUnsupportedHost. The user-info must be non-empty or ErrMissingUser is
// returned. The name is the whole user-info, password part included, as
// net/url decodes it; no further decoding or case normalization is applied.
func IdentityFromURI(u *url.URL) (domain.Identity, error) {
	if u == nil {
		return domain.Identity{}, ErrMissingURI
	}

	host := u.Hostname()
	if host == "" {
		return domain.Identity{}, fmt.Errorf("%w: %q has no host", ErrUnsupportedHost, u.Redacted())
	}
	if isIPLiteral(host) {
		return domain.Identity{}, fmt.Errorf("%w: %q is an IP literal", ErrUnsupportedHost, host)
	}

	name := userInfo(u.User)
	if name == "" {
		return domain.Identity{}, fmt.Errorf("%w: %q", ErrMissingUser, u.Redacted())
	}

	return domain.NewIdentity(name, host), nil
}

// userInfo rebuilds the decoded user-info component. A set but empty
// password keeps its colon.
func userInfo(ui *url.Userinfo) string {
	if ui == nil {
		return ""
	}
	if password, ok := ui.Password(); ok {
		return ui.Username() + ":" + password
	}
	return ui.Username()
}

func isIPLiteral(host string) bool {
	if net.ParseIP(host) != nil {
		return true
	}
	// Zoned IPv6 (fe80::1%eth0) does not parse above; no DNS name has a colon.
	return strings.Contains(host, ":")
}

// IdentityFromCertificate reads the certificate's subject common name and
// parses it as name@domain. A missing or non-identity common name yields
// false: not every subject is identity-shaped.
func IdentityFromCertificate(cert *x509.Certificate) (domain.Identity, bool) {
	if cert == nil || cert.Subject.CommonName == "" {
		return domain.Identity{}, false
	}
	id, err := domain.ParseIdentity(cert.Subject.CommonName)
	if err != nil {
		return domain.Identity{}, false
	}
	return id, true
}

// IdentityFromSPIFFEID maps an X.509-SVID's spiffe://<trust-domain>/<path>
// URI SAN to <path>@<trust-domain>. Multi-segment paths are kept whole,
// so spiffe://example.org/ns/prod/api becomes ns/prod/api@example.org.
func IdentityFromSPIFFEID(cert *x509.Certificate) (domain.Identity, error) {
	if cert == nil {
		return domain.Identity{}, fmt.Errorf("%w: nil certificate", ErrNoSPIFFEID)
	}
	id, err := x509svid.IDFromCert(cert)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrNoSPIFFEID, err)
	}

	name := strings.TrimPrefix(id.Path(), "/")
	if name == "" {
		return domain.Identity{}, fmt.Errorf("%w: %s has no workload path", ErrMissingUser, id)
	}
	return domain.NewIdentity(name, id.TrustDomain().Name()), nil
}
