package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/domain"
	portssvc "github.com/SscSPs/mma_statements/internal/core/ports/services"
	"github.com/SscSPs/mma_statements/internal/dto"
	handlerdto "github.com/SscSPs/mma_statements/internal/handlers/dto"
	"github.com/SscSPs/mma_statements/internal/middleware"
	"github.com/gin-gonic/gin"
)

const defaultMaxUploadBytes = 20 << 20

// statementHandler handles HTTP requests related to statements.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
	maxUploadBytes   int64
}

// newStatementHandler creates a new statementHandler.
func newStatementHandler(statementService portssvc.StatementSvcFacade, maxUploadBytes int64) *statementHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &statementHandler{
		statementService: statementService,
		maxUploadBytes:   maxUploadBytes,
	}
}

// RegisterStatementRoutes registers the statement routes on rg. extraction
// middleware (rate limiting) wraps only the routes that may call the extractor.
func RegisterStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvcFacade, maxUploadBytes int64, extraction ...gin.HandlerFunc) {
	h := newStatementHandler(statementService, maxUploadBytes)

	statements := rg.Group("/statements")
	{
		statements.POST("", h.uploadStatement)
		statements.GET("", h.listStatements)
		statements.GET("/:id", h.getStatement)
		statements.GET("/:id/reconciliation", h.reconcileStatement)
		statements.POST("/:id/confirm", h.confirmImport)

		extracting := statements.Group("", extraction...)
		extracting.POST("/:id/preview", h.previewStatement)
		extracting.POST("/:id/process", h.processStatement)
		extracting.POST("/:id/rescan", h.rescanStatement)
	}
}

// uploadStatement godoc
// @Summary Upload a statement file
// @Description Stores the file and registers a pending statement. Re-uploading identical content returns 409 with the existing statement ID.
// @Tags statements
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Statement file (PDF or image)"
// @Param   statement_type formData string true "bank, credit_card, ewallet or receipt"
// @Param   display_name formData string false "Display name (defaults to the file name)"
// @Success 201 {object} dto.StatementResponse
// @Failure 400 {object} handlerdto.ErrorResponse "Invalid form or validation error"
// @Failure 401 {object} handlerdto.ErrorResponse "Unauthorized"
// @Failure 409 {object} handlerdto.ErrorResponse "Duplicate upload"
// @Failure 500 {object} handlerdto.ErrorResponse "Failed to upload statement"
// @Security BearerAuth
// @Router /statements [post]
func (h *statementHandler) uploadStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, handlerdto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var form handlerdto.UploadStatementForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn("Failed to bind upload form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, handlerdto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Upload without file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, handlerdto.ErrorResponse{Error: "file is required"})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, handlerdto.ErrorResponse{Error: fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, handlerdto.ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, handlerdto.ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}
	displayName := form.DisplayName
	if displayName == "" {
		displayName = fileHeader.Filename
	}

	logger = logger.With(slog.String("statement_type", form.StatementType))
	logger.Info("Received statement upload", slog.String("display_name", displayName), slog.Int("size", len(content)))

	stmt, err := h.statementService.Upload(c.Request.Context(), userID, dto.UploadStatementRequest{
		StatementType: domain.StatementType(form.StatementType),
		DisplayName:   displayName,
		ContentType:   contentType,
		Content:       content,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && stmt != nil {
			logger.Info("Duplicate statement upload", slog.String("statement_id", stmt.StatementID))
			c.JSON(http.StatusConflict, handlerdto.ErrorResponse{Error: err.Error(), StatementID: stmt.StatementID})
			return
		}
		respondError(c, err, "Failed to upload statement")
		return
	}

	logger.Info("Statement uploaded", slog.String("statement_id", stmt.StatementID))
	c.JSON(http.StatusCreated, dto.ToStatementResponse(stmt))
}

// listStatements godoc
// @Summary List statements
// @Description Lists the statements of the logged-in user, newest first
// @Tags statements
// @Produce  json
// @Param   limit query int false "Page size (max 100)" default(20)
// @Param   nextToken query string false "Token returned by the previous page"
// @Success 200 {object} dto.ListStatementsResponse
// @Failure 400 {object} handlerdto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} handlerdto.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlerdto.ErrorResponse "Failed to list statements"
// @Security BearerAuth
// @Router /statements [get]
func (h *statementHandler) listStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, handlerdto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListStatementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListStatements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, handlerdto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	statements, nextToken, err := h.statementService.ListStatements(c.Request.Context(), userID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list statements")
		return
	}

	c.JSON(http.StatusOK, dto.ListStatementsResponse{
		Statements: dto.ToListStatementResponse(statements),
		NextToken:  nextToken,
	})
}

// getStatement godoc
// @Summary Get a statement
// @Description Retrieves a statement and its processing state
// @Tags statements
// @Produce  json
// @Param   id path string true "Statement ID"
// @Success 200 {object} dto.StatementResponse
// @Failure 401 {object} handlerdto.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlerdto.ErrorResponse "Statement not found"
// @Failure 500 {object} handlerdto.ErrorResponse "Failed to retrieve statement"
// @Security BearerAuth
// @Router /statements/{id} [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	stmt, err := h.statementService.GetStatement(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementResponse(stmt))
}

// previewStatement godoc
// @Summary Preview a statement extraction
// @Description Extracts the statement (or returns the cached extraction) without importing it
// @Tags statements
// @Produce  json
// @Param   id path string true "Statement ID"
// @Param   force_refresh query bool false "Ignore the cached extraction"
// @Success 200 {object} domain.ProcessResult
// @Failure 400 {object} handlerdto.ErrorResponse "Unsupported statement type"
// @Failure 404 {object} handlerdto.ErrorResponse "Statement not found"
// @Failure 409 {object} handlerdto.ErrorResponse "Statement is being processed"
// @Failure 429 {object} handlerdto.ErrorResponse "Too many requests"
// @Failure 502 {object} handlerdto.ErrorResponse "Extraction failed"
// @Security BearerAuth
// @Router /statements/{id}/preview [post]
func (h *statementHandler) previewStatement(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var params handlerdto.PreviewParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, handlerdto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	result, err := h.statementService.Preview(c.Request.Context(), userID, c.Param("id"), params.ForceRefresh)
	if err != nil {
		respondError(c, err, "Failed to preview statement")
		return
	}
	c.JSON(http.StatusOK, result)
}

// processStatement godoc
// @Summary Process a statement
// @Description Extracts when needed, imports the ledger rows and reconciles the balances
// @Tags statements
// @Produce  json
// @Param   id path string true "Statement ID"
// @Param   force_reimport query bool false "Void rows from an earlier import and import again"
// @Success 200 {object} domain.ProcessResult
// @Failure 400 {object} handlerdto.ErrorResponse "Unsupported statement type"
// @Failure 404 {object} handlerdto.ErrorResponse "Statement not found"
// @Failure 409 {object} handlerdto.ErrorResponse "Already processed or being processed"
// @Failure 429 {object} handlerdto.ErrorResponse "Too many requests"
// @Failure 502 {object} handlerdto.ErrorResponse "Extraction failed"
// @Security BearerAuth
// @Router /statements/{id}/process [post]
func (h *statementHandler) processStatement(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var params handlerdto.ProcessParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, handlerdto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	result, err := h.statementService.Process(c.Request.Context(), userID, c.Param("id"), params.ForceReimport)
	if err != nil {
		respondError(c, err, "Failed to process statement")
		return
	}
	c.JSON(http.StatusOK, result)
}

// rescanStatement godoc
// @Summary Rescan a statement
// @Description Processes the statement again, voiding the rows of the earlier import
// @Tags statements
// @Produce  json
// @Param   id path string true "Statement ID"
// @Success 200 {object} domain.ProcessResult
// @Failure 404 {object} handlerdto.ErrorResponse "Statement not found"
// @Failure 409 {object} handlerdto.ErrorResponse "Statement is being processed"
// @Failure 429 {object} handlerdto.ErrorResponse "Too many requests"
// @Failure 502 {object} handlerdto.ErrorResponse "Extraction failed"
// @Security BearerAuth
// @Router /statements/{id}/rescan [post]
func (h *statementHandler) rescanStatement(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.statementService.Rescan(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to rescan statement")
		return
	}
	c.JSON(http.StatusOK, result)
}

// confirmImport godoc
// @Summary Confirm a previewed statement
// @Description Imports a statement from its cached extraction
// @Tags statements
// @Produce  json
// @Param   id path string true "Statement ID"
// @Success 200 {object} domain.ProcessResult
// @Failure 400 {object} handlerdto.ErrorResponse "Statement has no cached extraction"
// @Failure 404 {object} handlerdto.ErrorResponse "Statement not found"
// @Failure 409 {object} handlerdto.ErrorResponse "Already processed or being processed"
// @Security BearerAuth
// @Router /statements/{id}/confirm [post]
func (h *statementHandler) confirmImport(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.statementService.ConfirmImport(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to import statement")
		return
	}
	c.JSON(http.StatusOK, result)
}

// reconcileStatement godoc
// @Summary Reconcile a statement
// @Description Recomputes the balance reconciliation from the persisted rows. The report is null when the statement lacks an opening or closing balance.
// @Tags statements
// @Produce  json
// @Param   id path string true "Statement ID"
// @Success 200 {object} handlerdto.ReconciliationResponse
// @Failure 404 {object} handlerdto.ErrorResponse "Statement not found"
// @Failure 500 {object} handlerdto.ErrorResponse "Failed to reconcile statement"
// @Security BearerAuth
// @Router /statements/{id}/reconciliation [get]
func (h *statementHandler) reconcileStatement(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	statementID := c.Param("id")
	report, err := h.statementService.Reconcile(c.Request.Context(), userID, statementID)
	if err != nil {
		respondError(c, err, "Failed to reconcile statement")
		return
	}
	c.JSON(http.StatusOK, handlerdto.ReconciliationResponse{StatementID: statementID, Reconciliation: report})
}
