package collaborators

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
)

// FileCertificateProvider resolves company signing certificates from a
// directory of PEM files named <companyID>.pem. Expiry comes from the
// certificate's own NotAfter; the eligibility check upstream decides whether
// an expired certificate blocks submission.
type FileCertificateProvider struct {
	dir string
}

// NewFileCertificateProvider creates a provider reading certificates from dir.
func NewFileCertificateProvider(dir string) *FileCertificateProvider {
	return &FileCertificateProvider{dir: dir}
}

// GetActiveCertificate loads the company's certificate.
func (p *FileCertificateProvider) GetActiveCertificate(_ context.Context, companyID string) (ports.Certificate, error) {
	if companyID == "" {
		return ports.Certificate{}, errs.NewValueIsRequiredError("companyID")
	}

	path := filepath.Join(p.dir, companyID+".pem")
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ports.Certificate{}, errs.NewCertificateMissingError(companyID, err)
		}
		return ports.Certificate{}, err
	}

	block, _ := pem.Decode(raw)
	if block == nil || block.Type != "CERTIFICATE" {
		return ports.Certificate{}, errs.NewCertificateMissingError(companyID,
			fmt.Errorf("%s holds no PEM certificate block", path))
	}

	certificate, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return ports.Certificate{}, errs.NewCertificateMissingError(companyID, err)
	}

	return ports.Certificate{
		Path:      path,
		ExpiresAt: certificate.NotAfter,
	}, nil
}
