package ports

import (
	"context"
	"io"
	"time"

	"customs/internal/core/domain/model/kernel"
)

// VoyageSummary is the slice of voyage state the orchestrator needs to judge
// eligibility. The voyage itself is owned by another system.
type VoyageSummary struct {
	ID                kernel.UUID
	CompanyID         string
	Route             string
	Status            string
	ContainerCount    int
	BillOfLadingCount int
	TotalWeight       float64
}

// VoyageProvider looks up voyages in the system of record.
type VoyageProvider interface {
	GetVoyage(ctx context.Context, voyageID kernel.UUID) (VoyageSummary, error)
}

// Certificate is a signing certificate usable for authority calls.
type Certificate struct {
	Path      string
	ExpiresAt time.Time
}

// CertificateProvider resolves the active signing certificate of a company.
// An expired or absent certificate blocks submission before any network
// call.
type CertificateProvider interface {
	GetActiveCertificate(ctx context.Context, companyID string) (Certificate, error)
}

// Attachment describes one document stored alongside a voyage for the
// Paraguayan workflow.
type Attachment struct {
	Name       string
	Size       int64
	UploadedAt time.Time
}

// AttachmentStore manages voyage documents. It is operator-driven and
// independent of submission state.
type AttachmentStore interface {
	ListAttachments(ctx context.Context, voyageID kernel.UUID) ([]Attachment, error)
	StoreAttachment(ctx context.Context, voyageID kernel.UUID, name string, content io.Reader) (Attachment, error)
	DeleteAttachment(ctx context.Context, voyageID kernel.UUID, name string) error
}
