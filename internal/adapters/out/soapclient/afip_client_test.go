package soapclient_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"customs/internal/adapters/out/soapclient"
	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func titEnviosRequest() ports.SendRequest {
	return ports.SendRequest{
		TransactionID:  kernel.NewUUID(),
		VoyageID:       kernel.NewUUID(),
		Country:        kernel.CountryAR,
		WebserviceType: kernel.WebserviceTitEnvios,
		Environment:    kernel.EnvironmentTesting,
	}
}

func afipClientFor(serverURL string) *soapclient.AfipClient {
	return soapclient.NewAfipClient(map[kernel.Environment]string{
		kernel.EnvironmentTesting: serverURL,
	}, nil, testLogger())
}

func TestAfipClient_Send_Success(t *testing.T) {
	var receivedAction string
	var receivedBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAction = r.Header.Get("SOAPAction")
		body, _ := io.ReadAll(r.Body)
		receivedBody = string(body)
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		io.WriteString(w, `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <RegistrarTitEnviosResponse>
      <numeroConfirmacion>16073MANI012345</numeroConfirmacion>
      <tracks>
        <track><numero>16073TRACK001</numero><tipo>envio</tipo><referencia>BL-001</referencia></track>
        <track><numero>16073TRACK002</numero><tipo>envio</tipo><referencia>BL-002</referencia></track>
      </tracks>
    </RegistrarTitEnviosResponse>
  </soap:Body>
</soap:Envelope>`)
	}))
	defer server.Close()

	request := titEnviosRequest()
	result, err := afipClientFor(server.URL).Send(context.Background(), request)

	require.NoError(t, err)
	assert.Equal(t, "16073MANI012345", result.ConfirmationNumber)
	require.Len(t, result.Tracks, 2)
	assert.Equal(t, "16073TRACK001", result.Tracks[0].Number())
	assert.Equal(t, "BL-001", result.Tracks[0].Reference())
	assert.True(t, result.Tracks[0].TransactionID().IsEqual(request.TransactionID))
	assert.Contains(t, result.RawResponse, "RegistrarTitEnviosResponse")

	assert.Contains(t, receivedAction, "RegistrarTitEnvios")
	assert.Contains(t, receivedBody, "RegistrarTitEnvios")
	assert.Contains(t, receivedBody, request.VoyageID.String())
	assert.Equal(t, receivedBody, result.RawRequest)
}

func TestAfipClient_Send_CarriesForwardTracks(t *testing.T) {
	var receivedBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		receivedBody = string(body)
		io.WriteString(w, `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <RegistrarMicDtaResponse>
      <numeroConfirmacion>16073MIC067890</numeroConfirmacion>
    </RegistrarMicDtaResponse>
  </soap:Body>
</soap:Envelope>`)
	}))
	defer server.Close()

	request := titEnviosRequest()
	request.WebserviceType = kernel.WebserviceMicDta
	request.CarryForward = carriedTracks(t, "16073TRACK001", "16073TRACK002")

	result, err := afipClientFor(server.URL).Send(context.Background(), request)

	require.NoError(t, err)
	assert.Equal(t, "16073MIC067890", result.ConfirmationNumber)
	assert.Empty(t, result.Tracks)
	assert.Contains(t, receivedBody, "16073TRACK001")
	assert.Contains(t, receivedBody, "16073TRACK002")
}

func TestAfipClient_Send_SoapFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>1234</faultcode>
      <faultstring>manifiesto invalido</faultstring>
      <detail>el campo peso es obligatorio</detail>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`)
	}))
	defer server.Close()

	result, err := afipClientFor(server.URL).Send(context.Background(), titEnviosRequest())

	require.ErrorIs(t, err, errs.ErrAuthorityRejected)
	var rejection *errs.AuthorityRejectedError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "1234", rejection.Code)
	assert.Equal(t, "manifiesto invalido", rejection.Message)
	assert.Contains(t, rejection.Details, "peso")

	// The rejected attempt still carries both raw payloads for the ledger.
	assert.Contains(t, result.RawRequest, "RegistrarTitEnvios")
	assert.Contains(t, result.RawResponse, "manifiesto invalido")
}

func TestAfipClient_Send_ApplicationErrorList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <RegistrarTitEnviosResponse>
      <errores>
        <error><codigo>410</codigo><descripcion>CUIT inexistente</descripcion></error>
        <error><codigo>411</codigo><descripcion>aduana cerrada</descripcion></error>
      </errores>
    </RegistrarTitEnviosResponse>
  </soap:Body>
</soap:Envelope>`)
	}))
	defer server.Close()

	result, err := afipClientFor(server.URL).Send(context.Background(), titEnviosRequest())

	var rejection *errs.AuthorityRejectedError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "410", rejection.Code)
	assert.Equal(t, "CUIT inexistente", rejection.Message)
	assert.Contains(t, rejection.Details, "411")
	assert.Contains(t, result.RawResponse, "aduana cerrada")
	assert.NotEmpty(t, result.RawRequest)
}

func TestAfipClient_Send_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>proxy error</html>")
	}))
	defer server.Close()

	result, err := afipClientFor(server.URL).Send(context.Background(), titEnviosRequest())

	require.ErrorIs(t, err, errs.ErrMalformedResponse)
	var malformed *errs.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.RawResponse, "proxy error")
	assert.Contains(t, result.RawResponse, "proxy error")
	assert.NotEmpty(t, result.RawRequest)
}

func TestAfipClient_Send_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := afipClientFor(server.URL).Send(ctx, titEnviosRequest())
	require.ErrorIs(t, err, errs.ErrNetworkTimeout)

	// No response came back, but the sent envelope is preserved.
	assert.NotEmpty(t, result.RawRequest)
	assert.Empty(t, result.RawResponse)
}

func TestAfipClient_Send_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := afipClientFor(server.URL).Send(context.Background(), titEnviosRequest())
	require.ErrorIs(t, err, errs.ErrTransport)
}

func TestAfipClient_Send_UnknownEnvironment(t *testing.T) {
	client := soapclient.NewAfipClient(map[kernel.Environment]string{}, nil, testLogger())

	_, err := client.Send(context.Background(), titEnviosRequest())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
