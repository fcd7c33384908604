package services

import (
	"context"
	"fmt"
	"time"

	"github.com/crisdbarco/DeclaraFacil/internal/config"
	"github.com/crisdbarco/DeclaraFacil/internal/logging"
	"github.com/crisdbarco/DeclaraFacil/internal/models"
	"github.com/crisdbarco/DeclaraFacil/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// RequestService owns the declaration request lifecycle: submission,
// listing and status transitions
type RequestService struct {
	database     *mongo.Database
	users        *UserService
	declarations *DeclarationService
	logger       *logging.SafeLogger
}

// NewRequestService creates a new request service instance
func NewRequestService(database *mongo.Database, users *UserService, declarations *DeclarationService, logger *logging.SafeLogger) *RequestService {
	return &RequestService{
		database:     database,
		users:        users,
		declarations: declarations,
		logger:       logger,
	}
}

// Global request service instance
var RequestServiceInstance *RequestService

// InitRequestService initializes the global request service instance
func InitRequestService() {
	RequestServiceInstance = NewRequestService(config.MongoDB, UserServiceInstance, DeclarationServiceInstance, logging.Logger)
	logging.Logger.Info("request service initialized successfully")
}

func (s *RequestService) collection() *mongo.Collection {
	return s.database.Collection(config.AppConfig.RequestCollection)
}

// ListAllRequests returns every request, newest first. Admin only.
func (s *RequestService) ListAllRequests(ctx context.Context, callerCPF string) ([]models.RequestView, error) {
	if _, err := Authorize(ctx, s.users, callerCPF, RoleAdmin); err != nil {
		return nil, err
	}

	cursor, err := s.collection().Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.DeclarationRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}

	return s.buildViews(ctx, requests), nil
}

// ListRecentGenerated returns requests with a published URL generated
// strictly within the configured window (7 days by default), newest
// generation first. Admin only.
func (s *RequestService) ListRecentGenerated(ctx context.Context, callerCPF string) ([]models.RequestView, error) {
	if _, err := Authorize(ctx, s.users, callerCPF, RoleAdmin); err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-config.AppConfig.RecentGeneratedWindow)
	filter := bson.M{
		"url":          bson.M{"$ne": nil},
		"generated_at": bson.M{"$gt": cutoff},
	}

	cursor, err := s.collection().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "generated_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list generated requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.DeclarationRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode generated requests: %w", err)
	}

	return s.buildViews(ctx, requests), nil
}

// CreateRequest submits a new pending request for the caller. Only
// non-admin citizens submit requests; at most one pending request per
// (caller, declaration) pair is admitted.
func (s *RequestService) CreateRequest(ctx context.Context, callerCPF, declarationID string) (*models.RequestView, error) {
	if _, err := Authorize(ctx, s.users, callerCPF, RoleCitizen); err != nil {
		return nil, err
	}

	declID, err := primitive.ObjectIDFromHex(declarationID)
	if err != nil {
		return nil, models.ErrDeclarationNotFound
	}

	declaration, err := s.declarations.GetByID(ctx, declID)
	if err != nil {
		return nil, err
	}

	// Existence check before insert; the partial unique index on
	// (cpf, declaration_id, status=pending) closes the race window
	pendingFilter := bson.M{
		"cpf":            callerCPF,
		"declaration_id": declID,
		"status":         models.StatusPending,
	}
	count, err := s.collection().CountDocuments(ctx, pendingFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if count > 0 {
		return nil, models.ErrDuplicatePending
	}

	request := models.DeclarationRequest{
		ID:            primitive.NewObjectID(),
		CPF:           callerCPF,
		DeclarationID: declID,
		Status:        models.StatusPending,
		CreatedAt:     time.Now(),
	}

	_, err = s.collection().InsertOne(ctx, request)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicatePending
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("insert", "success").Inc()

	s.logger.Info("created declaration request",
		zap.String("request_id", request.ID.Hex()),
		zap.String("cpf", observability.MaskCPF(callerCPF)),
		zap.String("declaration_id", declID.Hex()))

	view := s.toView(ctx, request, declaration.Title)
	return &view, nil
}

// ListOwnRequests returns the caller's requests, newest first, with the
// declaration title and attendant name resolved. Non-admin only.
func (s *RequestService) ListOwnRequests(ctx context.Context, callerCPF string) ([]models.RequestView, error) {
	if _, err := Authorize(ctx, s.users, callerCPF, RoleCitizen); err != nil {
		return nil, err
	}

	cursor, err := s.collection().Find(ctx, bson.M{"cpf": callerCPF},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list own requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.DeclarationRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode own requests: %w", err)
	}

	return s.buildViews(ctx, requests), nil
}

// UpdateStatus applies a status transition to each id independently and
// returns the views of the requests that actually changed. Requests
// already in a terminal state never move again, and a terminal target is
// only applied to requests currently processing; everything else is
// skipped silently. Admin only.
func (s *RequestService) UpdateStatus(ctx context.Context, callerCPF string, requestIDs []string, target models.RequestStatus) ([]models.RequestView, error) {
	if _, err := Authorize(ctx, s.users, callerCPF, RoleAdmin); err != nil {
		return nil, err
	}

	if !target.IsValid() {
		return nil, models.ErrInvalidStatus
	}

	var updated []models.DeclarationRequest
	for _, idHex := range requestIDs {
		id, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			s.logger.Warn("skipping invalid request id", zap.String("request_id", idHex))
			continue
		}

		var request models.DeclarationRequest
		err = s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&request)
		if err != nil {
			if err != mongo.ErrNoDocuments {
				s.logger.Error("failed to load request for status update",
					zap.String("request_id", idHex), zap.Error(err))
			}
			continue
		}

		if request.Status.IsTerminal() {
			continue
		}
		if target.IsTerminal() && request.Status != models.StatusProcessing {
			continue
		}

		_, err = s.collection().UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": target}})
		if err != nil {
			s.logger.Error("failed to update request status",
				zap.String("request_id", idHex), zap.Error(err))
			continue
		}
		observability.DatabaseOperations.WithLabelValues("update", "success").Inc()

		request.Status = target
		updated = append(updated, request)

		s.logger.Info("updated request status",
			zap.String("request_id", idHex),
			zap.String("status", string(target)))
	}

	return s.buildViews(ctx, updated), nil
}

// GetByID loads a single request
func (s *RequestService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.DeclarationRequest, error) {
	var request models.DeclarationRequest
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	return &request, nil
}

// MarkGenerated atomically records the published artifact on a request:
// signed URL, processing status, generation timestamp and attendant
func (s *RequestService) MarkGenerated(ctx context.Context, id primitive.ObjectID, signedURL, attendantCPF string, generatedAt time.Time) error {
	_, err := s.collection().UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"url":           signedURL,
		"status":        models.StatusProcessing,
		"generated_at":  generatedAt,
		"attendant_cpf": attendantCPF,
	}})
	if err != nil {
		return fmt.Errorf("failed to record generated artifact: %w", err)
	}
	observability.DatabaseOperations.WithLabelValues("update", "success").Inc()
	return nil
}

// toView resolves the response shape for a single request
func (s *RequestService) toView(ctx context.Context, request models.DeclarationRequest, declarationTitle string) models.RequestView {
	view := models.RequestView{
		ID:               request.ID.Hex(),
		CPF:              request.CPF,
		DeclarationID:    request.DeclarationID.Hex(),
		DeclarationTitle: declarationTitle,
		Status:           string(request.Status),
		AttendantName:    "",
		CreatedAt:        request.CreatedAt,
		GeneratedAt:      request.GeneratedAt,
	}
	if request.URL != nil {
		view.URL = *request.URL
	}
	if request.AttendantCPF != nil {
		view.AttendantName = s.users.GetNameByCPF(ctx, *request.AttendantCPF)
	}
	return view
}

// buildViews resolves views for a batch of requests, deduplicating the
// declaration lookups
func (s *RequestService) buildViews(ctx context.Context, requests []models.DeclarationRequest) []models.RequestView {
	titles := make(map[primitive.ObjectID]string)
	views := make([]models.RequestView, 0, len(requests))

	for _, request := range requests {
		title, ok := titles[request.DeclarationID]
		if !ok {
			if declaration, err := s.declarations.GetByID(ctx, request.DeclarationID); err == nil {
				title = declaration.Title
			}
			titles[request.DeclarationID] = title
		}
		views = append(views, s.toView(ctx, request, title))
	}

	return views
}
