// Package domain contains the value types shared by the lime runtime core.
//
// The package has no dependencies on transports, SDKs or infrastructure. It
// imports the standard library, golang.org/x/text (Unicode case folding of
// identity keys) and github.com/google/uuid (command IDs) and nothing else.
//
// Files and types:
//
//   - identity.go: Identity, a protocol participant named name@domain.
//     Immutable, compared over its case-folded canonical form.
//   - node.go: Node, an Identity plus an optional instance (name@domain/instance).
//   - media_type.go: MediaType, the parsed MIME type used as the
//     discriminator for documents.
//   - document.go: Document and its built-in variants (PlainText, Text, Ping,
//     Receipt, JSONDocument), each bound to exactly one media type constant.
//   - command.go: Command, the part of the command envelope the addressing
//     layer reads (sender, destination, resource URI, resource type).
//   - errors.go: sentinel errors for parsing failures.
//
// Parsing of URIs and certificates into identities lives in pkg/addressing;
// this package only models the values.
package domain
