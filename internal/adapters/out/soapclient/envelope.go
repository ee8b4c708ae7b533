package soapclient

import (
	"encoding/xml"
	"fmt"
	"strings"

	"customs/internal/core/domain/model/track"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
)

const soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// requestEnvelope is the SOAP 1.1 request wrapper. The operation payload
// carries only the identifiers the orchestrator owns; full cargo payload
// mapping happens upstream of this service.
type requestEnvelope struct {
	XMLName xml.Name    `xml:"soapenv:Envelope"`
	SoapNS  string      `xml:"xmlns:soapenv,attr"`
	MsgNS   string      `xml:"xmlns:msg,attr"`
	Body    requestBody `xml:"soapenv:Body"`
}

type requestBody struct {
	Operation operationPayload
}

type operationPayload struct {
	XMLName       xml.Name
	TransactionID string         `xml:"msg:idTransaccion"`
	VoyageID      string         `xml:"msg:idViaje"`
	Tracks        []trackElement `xml:"msg:track,omitempty"`
}

type trackElement struct {
	Number    string `xml:"msg:numero"`
	Type      string `xml:"msg:tipo,omitempty"`
	Reference string `xml:"msg:referencia,omitempty"`
}

// responseEnvelope decodes the authority's answer. Namespace prefixes vary
// between endpoints, so matching is by local name only.
type responseEnvelope struct {
	XMLName xml.Name     `xml:"Envelope"`
	Body    responseBody `xml:"Body"`
}

type responseBody struct {
	Fault  *soapFault       `xml:"Fault"`
	Result *operationResult `xml:",any"`
}

type soapFault struct {
	Code    string `xml:"faultcode"`
	Message string `xml:"faultstring"`
	Detail  string `xml:"detail"`
}

type operationResult struct {
	Confirmation string          `xml:"numeroConfirmacion"`
	Tracks       []responseTrack `xml:"tracks>track"`
	Errors       []responseError `xml:"errores>error"`
}

type responseTrack struct {
	Number    string `xml:"numero"`
	Type      string `xml:"tipo"`
	Reference string `xml:"referencia"`
}

type responseError struct {
	Code        string `xml:"codigo"`
	Description string `xml:"descripcion"`
}

func buildEnvelope(operation, messageNS string, request ports.SendRequest) (string, error) {
	payload := operationPayload{
		XMLName:       xml.Name{Local: "msg:" + operation},
		TransactionID: request.TransactionID.String(),
		VoyageID:      request.VoyageID.String(),
	}
	for _, identifier := range request.CarryForward {
		payload.Tracks = append(payload.Tracks, trackElement{
			Number:    identifier.Number(),
			Type:      identifier.Type(),
			Reference: identifier.Reference(),
		})
	}

	raw, err := xml.Marshal(requestEnvelope{
		SoapNS: soapEnvelopeNS,
		MsgNS:  messageNS,
		Body:   requestBody{Operation: payload},
	})
	if err != nil {
		return "", err
	}

	return xml.Header + string(raw), nil
}

// interpret turns a decoded response into a SendResult or a typed failure.
// A SOAP fault and an application-level error list both mean the authority
// understood and rejected the message. The raw body stays on the result even
// when the call failed; rejected and garbled attempts are persisted with it.
func interpret(request ports.SendRequest, raw string, envelope responseEnvelope) (ports.SendResult, error) {
	partial := ports.SendResult{RawResponse: raw}

	if envelope.Body.Fault != nil {
		fault := envelope.Body.Fault
		return partial, errs.NewAuthorityRejectedError(fault.Code, fault.Message, fault.Detail)
	}
	if envelope.Body.Result == nil {
		return partial, errs.NewMalformedResponseError(raw,
			fmt.Errorf("response body carries no operation result"))
	}

	result := envelope.Body.Result
	if len(result.Errors) > 0 {
		first := result.Errors[0]
		details := make([]string, 0, len(result.Errors))
		for _, respErr := range result.Errors {
			details = append(details, fmt.Sprintf("%s: %s", respErr.Code, respErr.Description))
		}
		return partial, errs.NewAuthorityRejectedError(
			first.Code, first.Description, strings.Join(details, "; "))
	}

	tracks := make([]track.TrackIdentifier, 0, len(result.Tracks))
	for _, respTrack := range result.Tracks {
		identifier, err := track.NewTrackIdentifier(
			respTrack.Number, respTrack.Type, request.TransactionID, respTrack.Reference)
		if err != nil {
			return partial, errs.NewMalformedResponseError(raw, err)
		}
		tracks = append(tracks, identifier)
	}

	return ports.SendResult{
		ConfirmationNumber: result.Confirmation,
		Tracks:             tracks,
		RawResponse:        raw,
	}, nil
}
