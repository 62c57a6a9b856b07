// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwirehttp

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrTLSCertificateRequired indicates a TLS configuration without both
	// a certificate file and a key file.
	ErrTLSCertificateRequired = errors.New("both a certificateFile and keyFile are required")

	// ErrUnableToAddClientCACertificate indicates a client CA file with no usable
	// PEM certificates.
	ErrUnableToAddClientCACertificate = errors.New("unable to add client CA certificate")
)

// TLS is the unmarshaled TLS configuration for a server.
type TLS struct {
	// CertificateFile is the PEM-encoded server certificate
	CertificateFile string

	// KeyFile is the PEM-encoded private key for CertificateFile
	KeyFile string

	// MinVersion is the minimum TLS version.  If unset, TLS 1.3 is required.
	MinVersion uint16

	// ClientCACertificateFile turns on mutual TLS.  Clients must present a
	// certificate signed by one of the CAs in this PEM file.
	ClientCACertificateFile string
}

// New creates a *tls.Config for a server.  A nil TLS returns a nil *tls.Config
// and no error, which means plain HTTP.
func (t *TLS) New() (*tls.Config, error) {
	if t == nil {
		return nil, nil
	}

	if len(t.CertificateFile) == 0 || len(t.KeyFile) == 0 {
		return nil, ErrTLSCertificateRequired
	}

	certificate, err := tls.LoadX509KeyPair(t.CertificateFile, t.KeyFile)
	if err != nil {
		return nil, err
	}

	tc := &tls.Config{
		MinVersion:   t.MinVersion,
		Certificates: []tls.Certificate{certificate},
		NextProtos:   []string{"http/1.1"},
	}

	if tc.MinVersion == 0 {
		tc.MinVersion = tls.VersionTLS13
	}

	if len(t.ClientCACertificateFile) > 0 {
		pemCerts, err := os.ReadFile(t.ClientCACertificateFile)
		if err != nil {
			return nil, err
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pemCerts) {
			return nil, fmt.Errorf("%w: %s", ErrUnableToAddClientCACertificate, t.ClientCACertificateFile)
		}

		tc.ClientCAs = pool
		tc.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return tc, nil
}
