package soapclient

import (
	"context"
	"log/slog"
	"net/http"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
)

const afipMessageNS = "ar.gob.afip.dia.serviciosweb.wgesregsintia2"

// afipOperations maps webservice types to the AFIP SOAP operation names.
var afipOperations = map[kernel.WebserviceType]string{
	kernel.WebserviceAnticipada:     "RegistrarInformacionAnticipada",
	kernel.WebserviceTitEnvios:      "RegistrarTitEnvios",
	kernel.WebserviceMicDta:         "RegistrarMicDta",
	kernel.WebserviceDesconsolidado: "RegistrarDesconsolidado",
	kernel.WebserviceTransbordo:     "RegistrarTransbordo",
	kernel.WebserviceMane:           "RegistrarMane",
}

// AfipClient submits Argentine declarations to the AFIP SINTIA2 service.
// One instance handles every AR webservice type; the operation name and
// SOAPAction are derived from the request.
type AfipClient struct {
	endpoints map[kernel.Environment]string
	transport soapTransport
}

// NewAfipClient creates a client posting to the given per-environment
// endpoints.
func NewAfipClient(endpoints map[kernel.Environment]string, httpClient *http.Client, logger *slog.Logger) *AfipClient {
	return &AfipClient{
		endpoints: endpoints,
		transport: newSoapTransport(httpClient, logger.With("component", "afip-client")),
	}
}

func (c *AfipClient) Send(ctx context.Context, request ports.SendRequest) (ports.SendResult, error) {
	operation, ok := afipOperations[request.WebserviceType]
	if !ok {
		return ports.SendResult{}, errs.NewNoClientRegisteredError(
			request.Country.String(), request.WebserviceType.String())
	}
	endpoint, ok := c.endpoints[request.Environment]
	if !ok {
		return ports.SendResult{}, errs.NewValueIsInvalidError("environment")
	}

	envelope, err := buildEnvelope(operation, afipMessageNS, request)
	if err != nil {
		return ports.SendResult{}, err
	}

	return c.transport.call(ctx, endpoint, afipMessageNS+"/"+operation, envelope, request)
}
