package domain

import (
	"fmt"
	"strings"
)

// instanceSeparator splits the identity from the instance in name@domain/instance.
const instanceSeparator = "/"

// Node is an Identity bound to an optional instance, e.g. a specific
// connection of the same participant: name@domain/instance.
type Node struct {
	identity Identity
	instance string
}

// NewNode builds a Node from an identity and an instance (may be empty).
func NewNode(identity Identity, instance string) Node {
	return Node{identity: identity, instance: instance}
}

// ParseNode parses name@domain[/instance].
func ParseNode(text string) (Node, error) {
	idText, instance, _ := strings.Cut(text, instanceSeparator)

	id, err := ParseIdentity(idText)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %w", ErrMalformedNode, err)
	}

	return Node{identity: id, instance: strings.TrimSpace(instance)}, nil
}

// Identity returns the node's identity without the instance.
func (n Node) Identity() Identity {
	return n.identity
}

// Instance returns the instance component, possibly empty.
func (n Node) Instance() string {
	return n.instance
}

// String returns name@domain or name@domain/instance.
func (n Node) String() string {
	if n.instance == "" {
		return n.identity.String()
	}
	return n.identity.String() + instanceSeparator + n.instance
}

// Equals compares identities case-insensitively and instances exactly.
func (n Node) Equals(other Node) bool {
	return n.identity.Equals(other.identity) && n.instance == other.instance
}
