package addressing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sufield/lime/internal/domain"
)

// Scheme is the scheme of every resolved relative URI.
const Scheme = "lime"

// IsRelative reports whether u has no authority component.
func IsRelative(u *url.URL) bool {
	return u.Host == "" && u.User == nil
}

// ResolveCommandURI returns the absolute form of cmd.URI.
//
// An absolute URI is returned unchanged. A relative URI is rebased onto the
// sender: lime://<name>@<domain><path>?<query>#<fragment>, which requires
// cmd.From. The result depends only on cmd.URI and cmd.From.
func ResolveCommandURI(cmd *domain.Command) (*url.URL, error) {
	if cmd == nil || cmd.URI == nil {
		return nil, ErrMissingURI
	}
	u := cmd.URI

	if !IsRelative(u) {
		abs := *u
		if u.User != nil {
			user := *u.User
			abs.User = &user
		}
		return &abs, nil
	}
	if u.Opaque != "" {
		return nil, fmt.Errorf("%w: %q", ErrOpaqueURI, u.String())
	}
	if cmd.From == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingSender, u.String())
	}

	sender := cmd.From.Identity()
	if !sender.IsValid() {
		return nil, fmt.Errorf("%w: sender %q is not a valid identity", ErrMissingSender, cmd.From.String())
	}

	return &url.URL{
		Scheme:      Scheme,
		User:        url.User(sender.Name()),
		Host:        sender.Domain(),
		Path:        rooted(u.Path),
		RawPath:     rooted(u.RawPath),
		RawQuery:    u.RawQuery,
		ForceQuery:  u.ForceQuery,
		Fragment:    u.Fragment,
		RawFragment: u.RawFragment,
	}, nil
}

func rooted(p string) string {
	if p == "" || strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// RouteIdentity resolves cmd.URI and returns the identity of its authority,
// the identity the command must be routed to.
func RouteIdentity(cmd *domain.Command) (domain.Identity, error) {
	u, err := ResolveCommandURI(cmd)
	if err != nil {
		return domain.Identity{}, err
	}
	return IdentityFromURI(u)
}
