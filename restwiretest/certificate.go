// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwiretest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"time"

	"github.com/stretchr/testify/suite"
)

// NewCertificateTemplate returns a self-signed server certificate template
// valid for an hour, for localhost and 127.0.0.1.
func NewCertificateTemplate() *x509.Certificate {
	now := time.Now()
	return &x509.Certificate{
		SerialNumber: big.NewInt(837492837),
		Issuer: pkix.Name{
			CommonName: "test",
		},
		Subject: pkix.Name{
			CommonName: "test",
		},
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1)},
		NotBefore:             now.Add(-time.Minute),
		NotAfter:              now.Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
}

// CreateTestCertificate creates a self-signed certificate from template,
// with a 2048-bit RSA key.
func CreateTestCertificate(template *x509.Certificate) (*tls.Certificate, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}

	return &tls.Certificate{
		Certificate: [][]byte{derBytes},
		PrivateKey:  key,
	}, nil
}

func writePEM(pattern, blockType string, data []byte) (name string, err error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return
	}

	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	name = f.Name()
	err = pem.Encode(f, &pem.Block{
		Type:  blockType,
		Bytes: data,
	})

	return
}

// CreateTestServerFiles writes the first certificate in the chain and its
// private key as PEM files, for use with tls.LoadX509KeyPair.  The caller
// must remove both files.
func CreateTestServerFiles(certificate *tls.Certificate) (certificateFile, keyFile string, err error) {
	keyBytes, err := x509.MarshalPKCS8PrivateKey(certificate.PrivateKey)
	if err != nil {
		return
	}

	certificateFile, err = writePEM("test-cert-*.pem", "CERTIFICATE", certificate.Certificate[0])
	if err != nil {
		return
	}

	keyFile, err = writePEM("test-key-*.pem", "PRIVATE KEY", keyBytes)
	if err != nil {
		os.Remove(certificateFile)
		certificateFile = ""
	}

	return
}

// TLSSuite is a testify suite that manages a test certificate and its files.
type TLSSuite struct {
	Suite

	certificate     *tls.Certificate
	certificateFile string
	keyFile         string
}

var (
	_ suite.SetupAllSuite    = (*TLSSuite)(nil)
	_ suite.TearDownAllSuite = (*TLSSuite)(nil)
)

// SetupSuite creates the certificate and its files.
func (suite *TLSSuite) SetupSuite() {
	var err error
	suite.certificate, err = CreateTestCertificate(NewCertificateTemplate())
	suite.Require().NoError(err, "Unable to generate test certificate")

	suite.certificateFile, suite.keyFile, err = CreateTestServerFiles(suite.certificate)
	suite.Require().NoError(err, "Unable to create temporary server files")
}

// TearDownSuite removes the files created in SetupSuite.
func (suite *TLSSuite) TearDownSuite() {
	for _, name := range []string{suite.certificateFile, suite.keyFile} {
		if err := os.Remove(name); err != nil {
			suite.T().Logf("Unable to remove %s: %s", name, err)
		}
	}
}

// Certificate returns the test certificate.
func (suite *TLSSuite) Certificate() *tls.Certificate {
	return suite.certificate
}

// CertificateFile returns the name of the PEM certificate file.
func (suite *TLSSuite) CertificateFile() string {
	return suite.certificateFile
}

// KeyFile returns the name of the PEM private key file.
func (suite *TLSSuite) KeyFile() string {
	return suite.keyFile
}

// CertPool returns a pool that trusts the test certificate, for clients.
func (suite *TLSSuite) CertPool() *x509.CertPool {
	leaf, err := x509.ParseCertificate(suite.certificate.Certificate[0])
	suite.Require().NoError(err)

	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	return pool
}
