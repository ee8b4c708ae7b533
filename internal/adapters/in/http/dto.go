package http

import (
	"time"

	"customs/internal/core/application/usecases/queries"
	"customs/internal/core/ports"
)

// SubmitRequest is the body of POST /api/v1/submissions.
type SubmitRequest struct {
	VoyageID       string `json:"voyageId"`
	Country        string `json:"country"`
	WebserviceType string `json:"webserviceType"`
	Environment    string `json:"environment"`
	Priority       string `json:"priority,omitempty"`
	RequestedBy    string `json:"requestedBy"`
}

// SubmitMicDtaRequest is the body of POST /api/v1/submissions/micdta. The
// step-one transaction id is the operator's explicit confirmation that the
// generated tracks were inspected.
type SubmitMicDtaRequest struct {
	VoyageID             string `json:"voyageId"`
	StepOneTransactionID string `json:"stepOneTransactionId"`
	Environment          string `json:"environment"`
	RequestedBy          string `json:"requestedBy"`
}

// RetryRequest is the body of POST /api/v1/submissions/:transactionId/retry.
type RetryRequest struct {
	RequestedBy string `json:"requestedBy"`
}

// BatchSubmitRequest is the body of POST /api/v1/submissions/batch.
type BatchSubmitRequest struct {
	VoyageIDs      []string `json:"voyageIds"`
	Country        string   `json:"country"`
	WebserviceType string   `json:"webserviceType"`
	Environment    string   `json:"environment"`
	RequestedBy    string   `json:"requestedBy"`
}

// SubmitResponse returns the id of the created attempt.
type SubmitResponse struct {
	TransactionID string `json:"transactionId"`
}

// BatchVoyageResult is the outcome for one voyage of a batch.
type BatchVoyageResult struct {
	VoyageID      string `json:"voyageId"`
	TransactionID string `json:"transactionId,omitempty"`
	Error         string `json:"error,omitempty"`
}

// BatchSubmitResponse aggregates the per-voyage outcomes.
type BatchSubmitResponse struct {
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Results   []BatchVoyageResult `json:"results"`
}

// WebserviceStatusResponse is one row of GET /api/v1/voyages/:voyageId/statuses.
type WebserviceStatusResponse struct {
	VoyageID           string     `json:"voyageId"`
	Country            string     `json:"country"`
	WebserviceType     string     `json:"webserviceType"`
	Status             string     `json:"status"`
	Badge              Badge      `json:"badge"`
	LastSentAt         *time.Time `json:"lastSentAt,omitempty"`
	ConfirmationNumber string     `json:"confirmationNumber,omitempty"`
	RetryCount         int        `json:"retryCount"`
	MaxRetries         int        `json:"maxRetries"`
	LastError          string     `json:"lastError,omitempty"`
	LastTransactionID  string     `json:"lastTransactionId,omitempty"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// TrackResponse is one authority-issued identifier.
type TrackResponse struct {
	Number    string `json:"number"`
	TrackType string `json:"trackType,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// TransactionResponse is the full audit detail of one attempt, raw payloads
// included.
type TransactionResponse struct {
	ID                 string          `json:"transactionId"`
	VoyageID           string          `json:"voyageId"`
	Country            string          `json:"country"`
	WebserviceType     string          `json:"webserviceType"`
	Environment        string          `json:"environment"`
	RequestedBy        string          `json:"requestedBy"`
	Status             string          `json:"status"`
	RequestPayload     string          `json:"requestPayload,omitempty"`
	ResponsePayload    string          `json:"responsePayload,omitempty"`
	ConfirmationNumber string          `json:"confirmationNumber,omitempty"`
	ErrorCode          string          `json:"errorCode,omitempty"`
	ErrorMessage       string          `json:"errorMessage,omitempty"`
	ErrorDetails       string          `json:"errorDetails,omitempty"`
	NeedsReview        bool            `json:"needsReview"`
	RetryCount         int             `json:"retryCount"`
	MaxRetries         int             `json:"maxRetries"`
	ParentID           string          `json:"parentTransactionId,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	SentAt             *time.Time      `json:"sentAt,omitempty"`
	RespondedAt        *time.Time      `json:"respondedAt,omitempty"`
	Tracks             []TrackResponse `json:"tracks,omitempty"`
}

// AttachmentResponse describes one supporting document of a voyage.
type AttachmentResponse struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Error is the uniform error body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func toAttachmentResponse(attachment ports.Attachment) AttachmentResponse {
	return AttachmentResponse{
		Name:       attachment.Name,
		Size:       attachment.Size,
		UploadedAt: attachment.UploadedAt,
	}
}

func toStatusResponse(row queries.GetVoyageStatusesQueryResponse) WebserviceStatusResponse {
	response := WebserviceStatusResponse{
		VoyageID:           row.VoyageID.String(),
		Country:            row.Country,
		WebserviceType:     row.WebserviceType,
		Status:             row.Status,
		Badge:              BadgeForStatus(row.Status),
		LastSentAt:         row.LastSentAt,
		ConfirmationNumber: row.ConfirmationNumber,
		RetryCount:         row.RetryCount,
		MaxRetries:         row.MaxRetries,
		LastError:          row.LastError,
		UpdatedAt:          row.UpdatedAt,
	}
	if row.LastTransactionID != nil {
		response.LastTransactionID = row.LastTransactionID.String()
	}
	return response
}

func toTransactionResponse(detail queries.GetTransactionQueryResponse) TransactionResponse {
	response := TransactionResponse{
		ID:                 detail.ID.String(),
		VoyageID:           detail.VoyageID.String(),
		Country:            detail.Country,
		WebserviceType:     detail.WebserviceType,
		Environment:        detail.Environment,
		RequestedBy:        detail.RequestedBy,
		Status:             detail.Status,
		RequestPayload:     detail.RequestPayload,
		ResponsePayload:    detail.ResponsePayload,
		ConfirmationNumber: detail.ConfirmationNumber,
		ErrorCode:          detail.ErrorCode,
		ErrorMessage:       detail.ErrorMessage,
		ErrorDetails:       detail.ErrorDetails,
		NeedsReview:        detail.NeedsReview,
		RetryCount:         detail.RetryCount,
		MaxRetries:         detail.MaxRetries,
		CreatedAt:          detail.CreatedAt,
		SentAt:             detail.SentAt,
		RespondedAt:        detail.RespondedAt,
	}
	if detail.ParentID != nil {
		response.ParentID = detail.ParentID.String()
	}
	for _, identifier := range detail.Tracks {
		response.Tracks = append(response.Tracks, TrackResponse{
			Number:    identifier.Number,
			TrackType: identifier.TrackType,
			Reference: identifier.Reference,
		})
	}
	return response
}
