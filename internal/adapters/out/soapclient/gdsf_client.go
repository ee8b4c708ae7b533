package soapclient

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
)

const gdsfMessageNS = "py.gov.aduana.gdsf"

// GdsfClient submits Paraguayan fluvial manifests to the DNA GDSF service.
// GDSF operation names are the uppercase message codes (XFFM, XFBL, ...).
type GdsfClient struct {
	endpoints map[kernel.Environment]string
	transport soapTransport
}

// NewGdsfClient creates a client posting to the given per-environment
// endpoints.
func NewGdsfClient(endpoints map[kernel.Environment]string, httpClient *http.Client, logger *slog.Logger) *GdsfClient {
	return &GdsfClient{
		endpoints: endpoints,
		transport: newSoapTransport(httpClient, logger.With("component", "gdsf-client")),
	}
}

func (c *GdsfClient) Send(ctx context.Context, request ports.SendRequest) (ports.SendResult, error) {
	if !request.WebserviceType.BelongsTo(kernel.CountryPY) {
		return ports.SendResult{}, errs.NewNoClientRegisteredError(
			request.Country.String(), request.WebserviceType.String())
	}
	endpoint, ok := c.endpoints[request.Environment]
	if !ok {
		return ports.SendResult{}, errs.NewValueIsInvalidError("environment")
	}

	operation := strings.ToUpper(request.WebserviceType.String())
	envelope, err := buildEnvelope(operation, gdsfMessageNS, request)
	if err != nil {
		return ports.SendResult{}, err
	}

	return c.transport.call(ctx, endpoint, gdsfMessageNS+"/"+operation, envelope, request)
}
