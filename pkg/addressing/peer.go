package addressing

import (
	"context"
	"crypto/tls"

	"github.com/sufield/lime/internal/domain"
)

// PeerIdentity extracts the remote identity from a completed TLS handshake.
//
// The leaf certificate's common name is consulted first, its SPIFFE ID
// second. PeerIdentity does not authenticate anything: the result is only
// trustworthy if the handshake verified the peer chain.
func PeerIdentity(cs tls.ConnectionState) (domain.Identity, bool) {
	if len(cs.PeerCertificates) == 0 || cs.PeerCertificates[0] == nil {
		return domain.Identity{}, false
	}
	leaf := cs.PeerCertificates[0]

	if id, ok := IdentityFromCertificate(leaf); ok {
		return id, true
	}
	if id, err := IdentityFromSPIFFEID(leaf); err == nil {
		return id, true
	}
	return domain.Identity{}, false
}

type contextKey int

const peerKey contextKey = iota

// WithPeer attaches the authenticated peer identity to ctx.
func WithPeer(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, peerKey, id)
}

// PeerFromContext returns the identity stored by WithPeer.
func PeerFromContext(ctx context.Context) (domain.Identity, bool) {
	if ctx == nil {
		return domain.Identity{}, false
	}
	id, ok := ctx.Value(peerKey).(domain.Identity)
	return id, ok
}
