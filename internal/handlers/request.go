package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/crisdbarco/DeclaraFacil/internal/logging"
	"github.com/crisdbarco/DeclaraFacil/internal/middleware"
	"github.com/crisdbarco/DeclaraFacil/internal/models"
	"github.com/crisdbarco/DeclaraFacil/internal/observability"
	"github.com/crisdbarco/DeclaraFacil/internal/services"
	"github.com/crisdbarco/DeclaraFacil/internal/utils"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusForError maps service error sentinels to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, models.ErrDeclarationNotFound),
		errors.Is(err, models.ErrRequestNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicatePending):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError logs the failure and writes the mapped error payload
func abortWithError(c *gin.Context, logger *logging.SafeLogger, operation string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(operation+" failed", zap.Error(err))
		c.JSON(status, ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// ListAllRequests godoc
// @Summary Listar todas as solicitações de declaração
// @Description Recupera todas as solicitações, mais recentes primeiro. Requer perfil de atendente.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RequestView "Solicitações obtidas com sucesso"
// @Failure 401 {object} ErrorResponse "Token de autenticação não fornecido ou inválido"
// @Failure 403 {object} ErrorResponse "Acesso negado - requer perfil de atendente"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /requests [get]
func ListAllRequests(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListAllRequests")
	defer span.End()

	callerCPF, err := middleware.CallerCPF(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"})
		return
	}
	logger := observability.Logger().With(zap.String("cpf", observability.MaskCPF(callerCPF)))

	span.SetAttributes(
		attribute.String("operation", "list_all_requests"),
		attribute.String("service", "request"),
	)

	if services.RequestServiceInstance == nil {
		logger.Error("request service not initialized")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Request service unavailable"})
		return
	}

	ctx, querySpan := utils.TraceDatabaseFind(ctx, "declaration_requests", "all")
	views, err := services.RequestServiceInstance.ListAllRequests(ctx, callerCPF)
	if err != nil {
		utils.RecordErrorInSpan(querySpan, err, map[string]interface{}{
			"operation": "list_all_requests",
		})
		querySpan.End()
		abortWithError(c, logger, "ListAllRequests", err)
		return
	}
	utils.AddSpanAttribute(querySpan, "requests_found", len(views))
	querySpan.End()

	c.JSON(http.StatusOK, views)

	logger.Debug("ListAllRequests completed",
		zap.Int("count", len(views)),
		zap.Duration("total_duration", time.Since(startTime)))
}

// ListRecentGenerated godoc
// @Summary Listar declarações geradas recentemente
// @Description Recupera solicitações com documento gerado nos últimos 7 dias. Requer perfil de atendente.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RequestView "Solicitações obtidas com sucesso"
// @Failure 401 {object} ErrorResponse "Token de autenticação não fornecido ou inválido"
// @Failure 403 {object} ErrorResponse "Acesso negado - requer perfil de atendente"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /requests/recent [get]
func ListRecentGenerated(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListRecentGenerated")
	defer span.End()

	callerCPF, err := middleware.CallerCPF(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"})
		return
	}
	logger := observability.Logger().With(zap.String("cpf", observability.MaskCPF(callerCPF)))

	span.SetAttributes(
		attribute.String("operation", "list_recent_generated"),
		attribute.String("service", "request"),
	)

	if services.RequestServiceInstance == nil {
		logger.Error("request service not initialized")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Request service unavailable"})
		return
	}

	ctx, querySpan := utils.TraceDatabaseFind(ctx, "declaration_requests", "recent_generated")
	views, err := services.RequestServiceInstance.ListRecentGenerated(ctx, callerCPF)
	if err != nil {
		utils.RecordErrorInSpan(querySpan, err, map[string]interface{}{
			"operation": "list_recent_generated",
		})
		querySpan.End()
		abortWithError(c, logger, "ListRecentGenerated", err)
		return
	}
	utils.AddSpanAttribute(querySpan, "requests_found", len(views))
	querySpan.End()

	c.JSON(http.StatusOK, views)

	logger.Debug("ListRecentGenerated completed",
		zap.Int("count", len(views)),
		zap.Duration("total_duration", time.Since(startTime)))
}

// CreateRequest godoc
// @Summary Criar solicitação de declaração
// @Description Registra uma nova solicitação pendente para o cidadão autenticado.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body models.CreateRequestInput true "Dados da solicitação"
// @Security BearerAuth
// @Success 201 {object} models.RequestView "Solicitação criada com sucesso"
// @Failure 400 {object} ErrorResponse "Payload inválido"
// @Failure 401 {object} ErrorResponse "Token de autenticação não fornecido ou inválido"
// @Failure 403 {object} ErrorResponse "Acesso negado - atendentes não criam solicitações"
// @Failure 404 {object} ErrorResponse "Declaração não encontrada"
// @Failure 409 {object} ErrorResponse "Já existe solicitação pendente para esta declaração"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /requests [post]
func CreateRequest(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "CreateRequest")
	defer span.End()

	callerCPF, err := middleware.CallerCPF(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"})
		return
	}
	logger := observability.Logger().With(zap.String("cpf", observability.MaskCPF(callerCPF)))

	span.SetAttributes(
		attribute.String("operation", "create_request"),
		attribute.String("service", "request"),
	)

	ctx, parseSpan := utils.TraceInputParsing(ctx, "create_request_payload")
	var input models.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	parseSpan.End()

	if services.RequestServiceInstance == nil {
		logger.Error("request service not initialized")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Request service unavailable"})
		return
	}

	ctx, createSpan := utils.TraceBusinessLogic(ctx, "create_request")
	view, err := services.RequestServiceInstance.CreateRequest(ctx, callerCPF, input.DeclarationID)
	if err != nil {
		utils.RecordErrorInSpan(createSpan, err, map[string]interface{}{
			"declaration_id": input.DeclarationID,
		})
		createSpan.End()
		abortWithError(c, logger, "CreateRequest", err)
		return
	}
	utils.AddSpanAttribute(createSpan, "request_id", view.ID)
	createSpan.End()

	c.JSON(http.StatusCreated, view)

	logger.Debug("CreateRequest completed",
		zap.String("request_id", view.ID),
		zap.Duration("total_duration", time.Since(startTime)))
}

// ListOwnRequests godoc
// @Summary Listar solicitações do cidadão autenticado
// @Description Recupera as solicitações do próprio cidadão, mais recentes primeiro.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RequestView "Solicitações obtidas com sucesso"
// @Failure 401 {object} ErrorResponse "Token de autenticação não fornecido ou inválido"
// @Failure 403 {object} ErrorResponse "Acesso negado - exclusivo para cidadãos"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /requests/mine [get]
func ListOwnRequests(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListOwnRequests")
	defer span.End()

	callerCPF, err := middleware.CallerCPF(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"})
		return
	}
	logger := observability.Logger().With(zap.String("cpf", observability.MaskCPF(callerCPF)))

	span.SetAttributes(
		attribute.String("operation", "list_own_requests"),
		attribute.String("service", "request"),
	)

	if services.RequestServiceInstance == nil {
		logger.Error("request service not initialized")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Request service unavailable"})
		return
	}

	ctx, querySpan := utils.TraceDatabaseFind(ctx, "declaration_requests", "by_cpf")
	views, err := services.RequestServiceInstance.ListOwnRequests(ctx, callerCPF)
	if err != nil {
		utils.RecordErrorInSpan(querySpan, err, map[string]interface{}{
			"operation": "list_own_requests",
		})
		querySpan.End()
		abortWithError(c, logger, "ListOwnRequests", err)
		return
	}
	utils.AddSpanAttribute(querySpan, "requests_found", len(views))
	querySpan.End()

	c.JSON(http.StatusOK, views)

	logger.Debug("ListOwnRequests completed",
		zap.Int("count", len(views)),
		zap.Duration("total_duration", time.Since(startTime)))
}

// UpdateStatus godoc
// @Summary Atualizar status de solicitações em lote
// @Description Aplica a transição de status a cada solicitação de forma independente; solicitações em estado terminal são ignoradas. Requer perfil de atendente.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body models.UpdateStatusInput true "IDs e status alvo"
// @Security BearerAuth
// @Success 200 {array} models.RequestView "Solicitações efetivamente alteradas"
// @Failure 400 {object} ErrorResponse "Payload ou status inválido"
// @Failure 401 {object} ErrorResponse "Token de autenticação não fornecido ou inválido"
// @Failure 403 {object} ErrorResponse "Acesso negado - requer perfil de atendente"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /requests/status [put]
func UpdateStatus(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "UpdateStatus")
	defer span.End()

	callerCPF, err := middleware.CallerCPF(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"})
		return
	}
	logger := observability.Logger().With(zap.String("cpf", observability.MaskCPF(callerCPF)))

	span.SetAttributes(
		attribute.String("operation", "update_status"),
		attribute.String("service", "request"),
	)

	ctx, parseSpan := utils.TraceInputParsing(ctx, "update_status_payload")
	var input models.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	parseSpan.End()

	if services.RequestServiceInstance == nil {
		logger.Error("request service not initialized")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Request service unavailable"})
		return
	}

	ctx, updateSpan := utils.TraceDatabaseUpdate(ctx, "declaration_requests", "bulk_status")
	views, err := services.RequestServiceInstance.UpdateStatus(ctx, callerCPF, input.RequestIDs, models.RequestStatus(input.Status))
	if err != nil {
		utils.RecordErrorInSpan(updateSpan, err, map[string]interface{}{
			"target_status": input.Status,
			"id_count":      len(input.RequestIDs),
		})
		updateSpan.End()
		abortWithError(c, logger, "UpdateStatus", err)
		return
	}
	utils.AddSpanAttribute(updateSpan, "updated_count", len(views))
	updateSpan.End()

	c.JSON(http.StatusOK, views)

	logger.Debug("UpdateStatus completed",
		zap.String("target_status", input.Status),
		zap.Int("requested", len(input.RequestIDs)),
		zap.Int("updated", len(views)),
		zap.Duration("total_duration", time.Since(startTime)))
}

// GenerateDocuments godoc
// @Summary Gerar documentos de declaração em lote
// @Description Gera e publica o documento PDF de cada solicitação pendente do lote; falhas individuais não abortam o lote. Requer perfil de atendente.
// @Tags requests
// @Accept json
// @Produce json
// @Param request body models.GenerateInput true "IDs das solicitações"
// @Security BearerAuth
// @Success 200 {object} models.GenerationResult "Resultado da geração em lote"
// @Failure 400 {object} ErrorResponse "Payload inválido"
// @Failure 401 {object} ErrorResponse "Token de autenticação não fornecido ou inválido"
// @Failure 403 {object} ErrorResponse "Acesso negado - requer perfil de atendente"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /requests/generate [post]
func GenerateDocuments(c *gin.Context) {
	startTime := time.Now()
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "GenerateDocuments")
	defer span.End()

	callerCPF, err := middleware.CallerCPF(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"})
		return
	}
	logger := observability.Logger().With(zap.String("cpf", observability.MaskCPF(callerCPF)))

	span.SetAttributes(
		attribute.String("operation", "generate_documents"),
		attribute.String("service", "generation"),
	)

	ctx, parseSpan := utils.TraceInputParsing(ctx, "generate_payload")
	var input models.GenerateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RecordErrorInSpan(parseSpan, err, nil)
		parseSpan.End()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	parseSpan.End()

	if services.GenerationServiceInstance == nil {
		logger.Error("generation service not initialized")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Generation service unavailable"})
		return
	}

	ctx, generateSpan := utils.TraceBusinessLogic(ctx, "batch_generation")
	result, err := services.GenerationServiceInstance.GenerateDocuments(ctx, callerCPF, input.RequestIDs)
	if err != nil {
		utils.RecordErrorInSpan(generateSpan, err, map[string]interface{}{
			"id_count": len(input.RequestIDs),
		})
		generateSpan.End()
		abortWithError(c, logger, "GenerateDocuments", err)
		return
	}
	utils.AddSpanAttribute(generateSpan, "generated_count", len(result.Generated))
	generateSpan.End()

	c.JSON(http.StatusOK, result)

	logger.Debug("GenerateDocuments completed",
		zap.Int("requested", len(input.RequestIDs)),
		zap.Int("generated", len(result.Generated)),
		zap.Duration("total_duration", time.Since(startTime)))
}

// ListDeclarations godoc
// @Summary Listar modelos de declaração disponíveis
// @Description Recupera os modelos de declaração que podem ser solicitados.
// @Tags declarations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Declaration "Modelos obtidos com sucesso"
// @Failure 401 {object} ErrorResponse "Token de autenticação não fornecido ou inválido"
// @Failure 500 {object} ErrorResponse "Erro interno do servidor"
// @Router /declarations [get]
func ListDeclarations(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "ListDeclarations")
	defer span.End()

	logger := observability.Logger()

	if services.DeclarationServiceInstance == nil {
		logger.Error("declaration service not initialized")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Declaration service unavailable"})
		return
	}

	ctx, querySpan := utils.TraceDatabaseFind(ctx, "declarations", "all")
	declarations, err := services.DeclarationServiceInstance.List(ctx)
	if err != nil {
		utils.RecordErrorInSpan(querySpan, err, nil)
		querySpan.End()
		logger.Error("failed to list declarations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve declarations"})
		return
	}
	utils.AddSpanAttribute(querySpan, "declarations_found", len(declarations))
	querySpan.End()

	c.JSON(http.StatusOK, declarations)
}
