package services

import (
	"context"
	"fmt"

	"github.com/crisdbarco/DeclaraFacil/internal/config"
	"github.com/crisdbarco/DeclaraFacil/internal/logging"
	"github.com/crisdbarco/DeclaraFacil/internal/models"
	"github.com/crisdbarco/DeclaraFacil/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UserService resolves citizen profiles. Profiles are read-only here; the
// identity provider owns the collection.
type UserService struct {
	database *mongo.Database
	logger   *logging.SafeLogger
}

// NewUserService creates a new user service instance
func NewUserService(database *mongo.Database, logger *logging.SafeLogger) *UserService {
	return &UserService{
		database: database,
		logger:   logger,
	}
}

// Global user service instance
var UserServiceInstance *UserService

// InitUserService initializes the global user service instance
func InitUserService() {
	UserServiceInstance = NewUserService(config.MongoDB, logging.Logger)
	logging.Logger.Info("user service initialized successfully")
}

// GetByCPF retrieves a user profile by CPF
func (s *UserService) GetByCPF(ctx context.Context, cpf string) (*models.UserProfile, error) {
	collection := s.database.Collection(config.AppConfig.UserCollection)

	var profile models.UserProfile
	err := collection.FindOne(ctx, bson.M{"cpf": cpf}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user profile: %w", err)
	}

	s.logger.Debug("retrieved user profile",
		zap.String("cpf", observability.MaskCPF(cpf)),
		zap.Bool("is_admin", profile.IsAdmin))

	return &profile, nil
}

// GetNameByCPF returns the display name for a CPF, or an empty string when
// the profile is missing
func (s *UserService) GetNameByCPF(ctx context.Context, cpf string) string {
	profile, err := s.GetByCPF(ctx, cpf)
	if err != nil {
		return ""
	}
	return profile.Name
}
