package soapclient

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
)

const maxResponseBytes = 4 << 20

// soapTransport posts one envelope and classifies what came back. Shared by
// both country clients; the classification rules are identical on every
// endpoint.
type soapTransport struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func newSoapTransport(httpClient *http.Client, logger *slog.Logger) soapTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return soapTransport{httpClient: httpClient, logger: logger}
}

// call posts the envelope and classifies the answer. Failure returns still
// carry whatever raw payloads exist at that point: failed attempts keep
// their audit trail.
func (t soapTransport) call(ctx context.Context, endpoint, action, envelope string,
	request ports.SendRequest) (ports.SendResult, error) {
	partial := ports.SendResult{RawRequest: envelope}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(envelope))
	if err != nil {
		return partial, errs.NewTransportError(endpoint, err)
	}
	httpRequest.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpRequest.Header.Set("SOAPAction", action)

	started := time.Now()
	httpResponse, err := t.httpClient.Do(httpRequest)
	if err != nil {
		if isTimeout(err) {
			return partial, errs.NewNetworkTimeoutError(endpoint, err)
		}
		return partial, errs.NewTransportError(endpoint, err)
	}
	defer httpResponse.Body.Close()

	rawBytes, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return partial, errs.NewNetworkTimeoutError(endpoint, err)
		}
		return partial, errs.NewTransportError(endpoint, err)
	}
	raw := string(rawBytes)
	partial.RawResponse = raw

	t.logger.Debug("authority answered",
		"endpoint", endpoint,
		"action", action,
		"http_status", httpResponse.StatusCode,
		"latency_ms", time.Since(started).Milliseconds(),
	)

	// SOAP faults arrive as HTTP 500 with a well-formed envelope, so the
	// body is parsed before the status code is judged.
	var envelopeResponse responseEnvelope
	if err := xml.Unmarshal(rawBytes, &envelopeResponse); err != nil {
		return partial, errs.NewMalformedResponseError(raw, err)
	}

	result, err := interpret(request, raw, envelopeResponse)
	result.RawRequest = envelope
	return result, err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
