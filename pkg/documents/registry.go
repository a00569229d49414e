// Package documents maps media types to document kinds.
//
// Lookup is an exact match on the normalized type/subtype[+suffix] key.
// An unregistered media type resolves to KindUnknown; that is an outcome
// for the caller to branch on, not an error. The registry never infers a
// kind from payload shape.
package documents

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/sufield/lime/internal/domain"
	"github.com/sufield/lime/internal/notify"
)

// Kind names a document variant.
type Kind string

// KindUnknown is the zero Kind, returned for unregistered media types.
const KindUnknown Kind = ""

// Built-in kinds.
const (
	KindPlainText Kind = "plain-text"
	KindText      Kind = "text"
	KindPing      Kind = "ping"
	KindReceipt   Kind = "receipt"
	KindJSON      Kind = "json"
)

// String returns "unknown" for KindUnknown.
func (k Kind) String() string {
	if k == KindUnknown {
		return "unknown"
	}
	return string(k)
}

// DecodeFunc turns a payload into a document of one kind.
type DecodeFunc func(data []byte) (domain.Document, error)

// Registration is one media type to kind binding.
type Registration struct {
	Kind      Kind
	MediaType domain.MediaType
}

type entry struct {
	Registration
	decode DecodeFunc
}

// Registry binds each kind to exactly one media type. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	byKey     map[string]entry
	byKind    map[Kind]string
	listeners notify.List[Registration]
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		byKey:  make(map[string]entry),
		byKind: make(map[Kind]string),
	}
}

// Default returns a new registry holding every built-in document variant.
// Each call returns an independent registry.
func Default() *Registry {
	r := New()
	for _, b := range builtins() {
		if err := r.Register(b.kind, b.mediaType, b.decode); err != nil {
			panic(fmt.Sprintf("documents: built-in registration: %v", err))
		}
	}
	return r
}

// Register binds kind to mediaType. Registering an already bound media type
// or kind fails; bindings are never replaced.
func (r *Registry) Register(kind Kind, mediaType string, decode DecodeFunc) error {
	if kind == KindUnknown || decode == nil {
		return ErrInvalidRegistration
	}
	mt, err := domain.ParseMediaType(mediaType)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
	}
	key := mt.Key()

	reg := Registration{Kind: kind, MediaType: mt}

	r.mu.Lock()
	if existing, ok := r.byKey[key]; ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s is bound to %s", ErrDuplicateMediaType, key, existing.Kind)
	}
	if existing, ok := r.byKind[kind]; ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s is bound to %s", ErrDuplicateKind, kind, existing)
	}
	r.byKey[key] = entry{Registration: reg, decode: decode}
	r.byKind[kind] = key
	r.mu.Unlock()

	r.listeners.Notify(reg)
	return nil
}

// Subscribe registers fn to be called after every successful Register.
// Existing registrations are not replayed.
func (r *Registry) Subscribe(fn func(Registration)) (unsubscribe func()) {
	return r.listeners.Subscribe(fn)
}

// Resolve returns the kind bound to mt, or KindUnknown and false.
func (r *Registry) Resolve(mt domain.MediaType) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byKey[mt.Key()]
	if !ok {
		return KindUnknown, false
	}
	return e.Kind, true
}

// ResolveString parses s and resolves it. A malformed media type is unknown.
func (r *Registry) ResolveString(s string) (Kind, bool) {
	mt, err := domain.ParseMediaType(s)
	if err != nil {
		return KindUnknown, false
	}
	return r.Resolve(mt)
}

// MediaTypeOf returns the media type bound to kind.
func (r *Registry) MediaTypeOf(kind Kind) (domain.MediaType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.byKind[kind]
	if !ok {
		return domain.MediaType{}, false
	}
	return r.byKey[key].MediaType, true
}

// Registrations lists every binding ordered by media type key.
func (r *Registry) Registrations() []Registration {
	r.mu.RLock()
	out := make([]Registration, 0, len(r.byKey))
	for _, e := range r.byKey {
		out = append(out, e.Registration)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Registration) int {
		return cmp.Compare(a.MediaType.Key(), b.MediaType.Key())
	})
	return out
}

// Decode selects the variant registered for mediaType and decodes data into it.
func (r *Registry) Decode(mediaType string, data []byte) (domain.Document, error) {
	mt, err := domain.ParseMediaType(mediaType)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	e, ok := r.byKey[mt.Key()]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMediaType, mt.Key())
	}

	doc, err := e.decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %w", ErrDecode, e.Kind, err)
	}
	return doc, nil
}

// Encode serializes doc, returning the payload and the media type string to
// send with it. doc's media type must be registered.
func (r *Registry) Encode(doc domain.Document) ([]byte, string, error) {
	if doc == nil {
		return nil, "", fmt.Errorf("%w: nil document", ErrUnknownMediaType)
	}
	mt := doc.MediaType()

	r.mu.RLock()
	_, ok := r.byKey[mt.Key()]
	r.mu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownMediaType, mt.Key())
	}

	data, err := marshal(doc)
	if err != nil {
		return nil, "", err
	}
	return data, mt.String(), nil
}
