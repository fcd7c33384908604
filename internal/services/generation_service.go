package services

import (
	"context"
	"fmt"
	"time"

	"github.com/crisdbarco/DeclaraFacil/internal/document"
	"github.com/crisdbarco/DeclaraFacil/internal/logging"
	"github.com/crisdbarco/DeclaraFacil/internal/models"
	"github.com/crisdbarco/DeclaraFacil/internal/observability"
	"github.com/crisdbarco/DeclaraFacil/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// GenerationService walks a batch of request ids, producing and publishing
// one document per request. Items are processed sequentially and each
// item's failure is isolated: it is logged, reported in the outcome list
// and the batch moves on.
type GenerationService struct {
	requests  *RequestService
	users     *UserService
	publisher ArtifactPublisher
	logger    *logging.SafeLogger
}

// NewGenerationService creates a new generation service instance
func NewGenerationService(requests *RequestService, users *UserService, publisher ArtifactPublisher, logger *logging.SafeLogger) *GenerationService {
	return &GenerationService{
		requests:  requests,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// Global generation service instance
var GenerationServiceInstance *GenerationService

// InitGenerationService initializes the global generation service instance
func InitGenerationService() {
	GenerationServiceInstance = NewGenerationService(RequestServiceInstance, UserServiceInstance, StorageServiceInstance, logging.Logger)
	logging.Logger.Info("generation service initialized successfully")
}

// GenerateDocuments generates and publishes a declaration document for
// each pending request in the batch. Admin only. The result carries the
// successfully generated views plus a per-item outcome for every id.
func (s *GenerationService) GenerateDocuments(ctx context.Context, callerCPF string, requestIDs []string) (*models.GenerationResult, error) {
	attendant, err := Authorize(ctx, s.users, callerCPF, RoleAdmin)
	if err != nil {
		return nil, err
	}

	result := &models.GenerationResult{
		Generated: []models.RequestView{},
		Outcomes:  make([]models.GenerationOutcome, 0, len(requestIDs)),
	}

	for _, idHex := range requestIDs {
		view, outcome := s.generateOne(ctx, idHex, attendant)
		observability.DocumentGenerations.WithLabelValues(outcome.Outcome).Inc()
		result.Outcomes = append(result.Outcomes, outcome)
		if view != nil {
			result.Generated = append(result.Generated, *view)
		}
	}

	s.logger.Info("batch generation finished",
		zap.String("attendant_cpf", observability.MaskCPF(callerCPF)),
		zap.Int("requested", len(requestIDs)),
		zap.Int("generated", len(result.Generated)))

	return result, nil
}

// generateOne runs the full pipeline for a single request id. It never
// returns an error: problems are logged and folded into the outcome so
// the batch keeps going.
func (s *GenerationService) generateOne(ctx context.Context, idHex string, attendant *models.UserProfile) (*models.RequestView, models.GenerationOutcome) {
	skip := func(reason string) (*models.RequestView, models.GenerationOutcome) {
		s.logger.Warn("skipping request in batch",
			zap.String("request_id", idHex),
			zap.String("reason", reason))
		return nil, models.GenerationOutcome{RequestID: idHex, Outcome: models.OutcomeSkipped, Reason: reason}
	}
	fail := func(reason string, err error) (*models.RequestView, models.GenerationOutcome) {
		s.logger.Error("failed to generate document",
			zap.String("request_id", idHex),
			zap.String("reason", reason),
			zap.Error(err))
		return nil, models.GenerationOutcome{RequestID: idHex, Outcome: models.OutcomeFailed, Reason: reason}
	}

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return skip("invalid request id")
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if err == models.ErrRequestNotFound {
			return skip("request not found")
		}
		return fail("failed to load request", err)
	}
	if request.Status != models.StatusPending {
		return skip(fmt.Sprintf("request is %s, not pending", request.Status))
	}

	declaration, err := s.requests.declarations.GetByID(ctx, request.DeclarationID)
	if err != nil {
		if err == models.ErrDeclarationNotFound {
			return skip("declaration not found")
		}
		return fail("failed to load declaration", err)
	}

	profile, err := s.users.GetByCPF(ctx, request.CPF)
	if err != nil {
		if err == models.ErrUserNotFound {
			return skip("user profile not found")
		}
		return fail("failed to load user profile", err)
	}

	values := placeholderValues(profile, time.Now())
	body := document.RenderTemplate(declaration.Body, values)
	footer := document.RenderTemplate(declaration.Footer, values)

	artifact, err := document.RenderPDF(declaration.Title, body, footer)
	if err != nil {
		return fail("document rendering failed", err)
	}

	fileName := fmt.Sprintf("%s_%d.pdf", request.ID.Hex(), time.Now().UnixMilli())
	signedURL, err := s.publisher.Publish(ctx, fileName, artifact, "application/pdf")
	if err != nil {
		return fail("artifact publish failed", err)
	}

	generatedAt := time.Now()
	if err := s.requests.MarkGenerated(ctx, request.ID, signedURL, attendant.CPF, generatedAt); err != nil {
		return fail("failed to persist generated artifact", err)
	}

	request.Status = models.StatusProcessing
	request.URL = &signedURL
	request.GeneratedAt = &generatedAt
	request.AttendantCPF = &attendant.CPF

	view := s.requests.toView(ctx, *request, declaration.Title)

	s.logger.Info("generated declaration document",
		zap.String("request_id", request.ID.Hex()),
		zap.String("cpf", observability.MaskCPF(request.CPF)),
		zap.String("file", fileName))

	return &view, models.GenerationOutcome{RequestID: idHex, Outcome: models.OutcomeGenerated}
}

// placeholderValues assembles the token mapping for a profile. The
// complement gets a leading space when present so templates can embed it
// directly after the street number.
func placeholderValues(profile *models.UserProfile, now time.Time) map[string]string {
	complemento := ""
	if profile.Complemento != "" {
		complemento = " " + profile.Complemento
	}

	return map[string]string{
		"nome":          profile.Name,
		"logradouro":    profile.Logradouro,
		"numero":        profile.Numero,
		"complemento":   complemento,
		"bairro":        profile.Bairro,
		"municipio":     profile.Municipio,
		"estado":        profile.Estado,
		"cep":           utils.FormatCEP(profile.CEP),
		"rg":            profile.RG,
		"cpf":           utils.FormatCPF(profile.CPF),
		"orgao_emissor": profile.OrgaoEmissor,
		"data_atual":    document.LongFormDate(now),
	}
}
