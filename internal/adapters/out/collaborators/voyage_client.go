// Package collaborators holds the outbound adapters for the systems this
// service depends on but does not own: the voyage system of record, the
// company certificate store, and the voyage document store.
package collaborators

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
)

// voyageDTO is the voyage shape the voyage service exposes.
type voyageDTO struct {
	ID                string  `json:"voyageId"`
	CompanyID         string  `json:"companyId"`
	Route             string  `json:"route"`
	Status            string  `json:"status"`
	ContainerCount    int     `json:"containerCount"`
	BillOfLadingCount int     `json:"billOfLadingCount"`
	TotalWeight       float64 `json:"totalWeight"`
}

// HTTPVoyageProvider fetches voyage summaries from the voyage service.
type HTTPVoyageProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPVoyageProvider creates a provider for the voyage service at baseURL.
func NewHTTPVoyageProvider(baseURL string, httpClient *http.Client) *HTTPVoyageProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPVoyageProvider{baseURL: baseURL, httpClient: httpClient}
}

// GetVoyage fetches one voyage by id.
func (p *HTTPVoyageProvider) GetVoyage(ctx context.Context, voyageID kernel.UUID) (ports.VoyageSummary, error) {
	if err := voyageID.Validate(); err != nil {
		return ports.VoyageSummary{}, err
	}

	url := fmt.Sprintf("%s/api/v1/voyages/%s", p.baseURL, voyageID)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.VoyageSummary{}, errs.NewTransportError(url, err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := p.httpClient.Do(request)
	if err != nil {
		return ports.VoyageSummary{}, errs.NewTransportError(url, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return ports.VoyageSummary{}, errs.NewObjectNotFoundError("voyage", voyageID.String())
	}
	if response.StatusCode != http.StatusOK {
		return ports.VoyageSummary{}, errs.NewTransportError(url,
			fmt.Errorf("voyage service returned status %d", response.StatusCode))
	}

	var dto voyageDTO
	if err := json.NewDecoder(response.Body).Decode(&dto); err != nil {
		return ports.VoyageSummary{}, errs.NewTransportError(url, err)
	}

	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return ports.VoyageSummary{}, errs.NewValueIsInvalidErrorWithCause("voyageId", err)
	}

	return ports.VoyageSummary{
		ID:                id,
		CompanyID:         dto.CompanyID,
		Route:             dto.Route,
		Status:            dto.Status,
		ContainerCount:    dto.ContainerCount,
		BillOfLadingCount: dto.BillOfLadingCount,
		TotalWeight:       dto.TotalWeight,
	}, nil
}
