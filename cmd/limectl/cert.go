package main

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sufield/lime/pkg/addressing"
)

func newCertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cert <certificate.pem>",
		Short: "Show the identities a certificate carries",
		Long: `Show the identities a certificate carries.

The subject common name is used when it has the name@domain shape; an
X.509-SVID URI SAN spiffe://<domain>/<name> is reported as name@domain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := readCertificate(args[0])
			if err != nil {
				return err
			}

			if id, ok := addressing.IdentityFromCertificate(cert); ok {
				cmd.Printf("subject: %s\n", id)
			} else {
				cmd.Printf("subject: (none, %q is not name@domain)\n", cert.Subject.CommonName)
			}

			if id, err := addressing.IdentityFromSPIFFEID(cert); err == nil {
				cmd.Printf("spiffe:  %s\n", id)
			} else {
				cmd.Printf("spiffe:  (none)\n")
			}
			return nil
		},
	}
}

func readCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 - path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, errors.New("no PEM CERTIFICATE block found")
	}
	return x509.ParseCertificate(block.Bytes)
}
