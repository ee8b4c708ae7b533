// Package http exposes the orchestrator over REST. Handlers translate
// between wire DTOs and use case commands/queries; every domain failure maps
// to a stable HTTP status so API clients can distinguish caller mistakes,
// blocked submissions and races.
package http

import (
	"errors"
	nethttp "net/http"

	"customs/internal/core/application/usecases/commands"
	"customs/internal/core/application/usecases/queries"
	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/submission"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	submitHandler       commands.SubmitCommandHandler
	submitMicDtaHandler commands.SubmitMicDtaCommandHandler
	retryHandler        commands.RetryCommandHandler
	batchSubmitHandler  commands.BatchSubmitCommandHandler
	voyageStatusesQuery queries.GetVoyageStatusesQueryHandler
	transactionQuery    queries.GetTransactionQueryHandler
	attachments         ports.AttachmentStore
}

// NewServer creates a server over the given use case handlers.
func NewServer(
	submitHandler commands.SubmitCommandHandler,
	submitMicDtaHandler commands.SubmitMicDtaCommandHandler,
	retryHandler commands.RetryCommandHandler,
	batchSubmitHandler commands.BatchSubmitCommandHandler,
	voyageStatusesQuery queries.GetVoyageStatusesQueryHandler,
	transactionQuery queries.GetTransactionQueryHandler,
	attachments ports.AttachmentStore,
) *Server {
	return &Server{
		submitHandler:       submitHandler,
		submitMicDtaHandler: submitMicDtaHandler,
		retryHandler:        retryHandler,
		batchSubmitHandler:  batchSubmitHandler,
		voyageStatusesQuery: voyageStatusesQuery,
		transactionQuery:    transactionQuery,
		attachments:         attachments,
	}
}

// RegisterRoutes binds every endpoint on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/submissions", s.SubmitDeclaration)
	api.POST("/submissions/micdta", s.SubmitMicDta)
	api.POST("/submissions/:transactionId/retry", s.RetrySubmission)
	api.POST("/submissions/batch", s.BatchSubmit)
	api.GET("/voyages/:voyageId/statuses", s.GetVoyageStatuses)
	api.GET("/transactions/:transactionId", s.GetTransaction)
	api.GET("/voyages/:voyageId/attachments", s.ListAttachments)
	api.POST("/voyages/:voyageId/attachments", s.UploadAttachment)
	api.DELETE("/voyages/:voyageId/attachments/:name", s.DeleteAttachment)
}

// SubmitDeclaration handles POST /api/v1/submissions.
func (s *Server) SubmitDeclaration(ctx echo.Context) error {
	var body SubmitRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	voyageID, err := kernel.UUIDFromString(body.VoyageID)
	if err != nil {
		return badRequest(ctx, "Invalid voyageId: "+err.Error())
	}
	country, err := kernel.CountryFromString(body.Country)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	wsType, err := kernel.WebserviceTypeFromString(body.WebserviceType)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	environment, err := kernel.EnvironmentFromString(body.Environment)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	command, err := commands.NewSubmitCommand(voyageID, country, wsType, environment,
		submission.Priority(body.Priority), body.RequestedBy)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	transactionID, err := s.submitHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(nethttp.StatusCreated, SubmitResponse{TransactionID: transactionID.String()})
}

// SubmitMicDta handles POST /api/v1/submissions/micdta.
func (s *Server) SubmitMicDta(ctx echo.Context) error {
	var body SubmitMicDtaRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	voyageID, err := kernel.UUIDFromString(body.VoyageID)
	if err != nil {
		return badRequest(ctx, "Invalid voyageId: "+err.Error())
	}
	stepOneID, err := kernel.UUIDFromString(body.StepOneTransactionID)
	if err != nil {
		return badRequest(ctx, "Invalid stepOneTransactionId: "+err.Error())
	}
	environment, err := kernel.EnvironmentFromString(body.Environment)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	command, err := commands.NewSubmitMicDtaCommand(voyageID, stepOneID, environment, body.RequestedBy)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	transactionID, err := s.submitMicDtaHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(nethttp.StatusCreated, SubmitResponse{TransactionID: transactionID.String()})
}

// RetrySubmission handles POST /api/v1/submissions/:transactionId/retry.
func (s *Server) RetrySubmission(ctx echo.Context) error {
	transactionID, err := kernel.UUIDFromString(ctx.Param("transactionId"))
	if err != nil {
		return badRequest(ctx, "Invalid transactionId: "+err.Error())
	}

	var body RetryRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	command, err := commands.NewRetryCommand(transactionID, body.RequestedBy)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	retryID, err := s.retryHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(nethttp.StatusCreated, SubmitResponse{TransactionID: retryID.String()})
}

// BatchSubmit handles POST /api/v1/submissions/batch.
func (s *Server) BatchSubmit(ctx echo.Context) error {
	var body BatchSubmitRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	voyageIDs := make([]kernel.UUID, 0, len(body.VoyageIDs))
	for _, raw := range body.VoyageIDs {
		voyageID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(ctx, "Invalid voyageId "+raw+": "+err.Error())
		}
		voyageIDs = append(voyageIDs, voyageID)
	}
	country, err := kernel.CountryFromString(body.Country)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	wsType, err := kernel.WebserviceTypeFromString(body.WebserviceType)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	environment, err := kernel.EnvironmentFromString(body.Environment)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	command, err := commands.NewBatchSubmitCommand(voyageIDs, country, wsType, environment, body.RequestedBy)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	batch, err := s.batchSubmitHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return domainError(ctx, err)
	}

	response := BatchSubmitResponse{
		Succeeded: batch.Succeeded,
		Failed:    batch.Failed,
		Results:   make([]BatchVoyageResult, 0, len(batch.Results)),
	}
	for _, result := range batch.Results {
		item := BatchVoyageResult{VoyageID: result.VoyageID.String()}
		if result.Err != nil {
			item.Error = result.Err.Error()
		} else {
			item.TransactionID = result.TransactionID.String()
		}
		response.Results = append(response.Results, item)
	}

	return ctx.JSON(nethttp.StatusOK, response)
}

// GetVoyageStatuses handles GET /api/v1/voyages/:voyageId/statuses.
func (s *Server) GetVoyageStatuses(ctx echo.Context) error {
	voyageID, err := kernel.UUIDFromString(ctx.Param("voyageId"))
	if err != nil {
		return badRequest(ctx, "Invalid voyageId: "+err.Error())
	}

	query, err := queries.NewGetVoyageStatusesQuery(voyageID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	rows, err := s.voyageStatusesQuery.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]WebserviceStatusResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, toStatusResponse(row))
	}

	return ctx.JSON(nethttp.StatusOK, response)
}

// GetTransaction handles GET /api/v1/transactions/:transactionId.
func (s *Server) GetTransaction(ctx echo.Context) error {
	transactionID, err := kernel.UUIDFromString(ctx.Param("transactionId"))
	if err != nil {
		return badRequest(ctx, "Invalid transactionId: "+err.Error())
	}

	query, err := queries.NewGetTransactionQuery(transactionID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	detail, err := s.transactionQuery.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(nethttp.StatusOK, toTransactionResponse(detail))
}

// ListAttachments handles GET /api/v1/voyages/:voyageId/attachments.
func (s *Server) ListAttachments(ctx echo.Context) error {
	voyageID, err := kernel.UUIDFromString(ctx.Param("voyageId"))
	if err != nil {
		return badRequest(ctx, "Invalid voyageId: "+err.Error())
	}

	attachments, err := s.attachments.ListAttachments(ctx.Request().Context(), voyageID)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		response = append(response, toAttachmentResponse(attachment))
	}

	return ctx.JSON(nethttp.StatusOK, response)
}

// UploadAttachment handles POST /api/v1/voyages/:voyageId/attachments with a
// multipart "file" part.
func (s *Server) UploadAttachment(ctx echo.Context) error {
	voyageID, err := kernel.UUIDFromString(ctx.Param("voyageId"))
	if err != nil {
		return badRequest(ctx, "Invalid voyageId: "+err.Error())
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return badRequest(ctx, "Missing file part")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(ctx, "Unreadable file part")
	}
	defer file.Close()

	stored, err := s.attachments.StoreAttachment(ctx.Request().Context(), voyageID,
		fileHeader.Filename, file)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(nethttp.StatusCreated, toAttachmentResponse(stored))
}

// DeleteAttachment handles DELETE /api/v1/voyages/:voyageId/attachments/:name.
func (s *Server) DeleteAttachment(ctx echo.Context) error {
	voyageID, err := kernel.UUIDFromString(ctx.Param("voyageId"))
	if err != nil {
		return badRequest(ctx, "Invalid voyageId: "+err.Error())
	}

	if err := s.attachments.DeleteAttachment(ctx.Request().Context(), voyageID, ctx.Param("name")); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(nethttp.StatusNoContent)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(nethttp.StatusBadRequest, Error{
		Code:    nethttp.StatusBadRequest,
		Message: message,
	})
}

// domainError maps a use case failure to its HTTP status. Blocked
// submissions (dependencies, certificates, policy) are 422: the request was
// well-formed, the declaration is just not submittable yet.
func domainError(ctx echo.Context, err error) error {
	status := nethttp.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = nethttp.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		status = nethttp.StatusNotFound
	case errors.Is(err, errs.ErrConcurrencyConflict):
		status = nethttp.StatusConflict
	case errors.Is(err, errs.ErrDependencyNotSatisfied),
		errors.Is(err, errs.ErrVoyageNotEligible),
		errors.Is(err, errs.ErrCertificateExpired),
		errors.Is(err, errs.ErrCertificateMissing),
		errors.Is(err, errs.ErrRetryNotPermitted):
		status = nethttp.StatusUnprocessableEntity
	}

	return ctx.JSON(status, Error{Code: status, Message: err.Error()})
}
