package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crisdbarco/DeclaraFacil/internal/config"
	"github.com/crisdbarco/DeclaraFacil/internal/logging"
	"github.com/crisdbarco/DeclaraFacil/internal/models"
	"github.com/crisdbarco/DeclaraFacil/internal/observability"
	"github.com/crisdbarco/DeclaraFacil/internal/redisclient"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// DeclarationService reads declaration templates. Templates are immutable
// from this service's perspective, so lookups go through a Redis
// read-through cache.
type DeclarationService struct {
	database *mongo.Database
	cache    *redisclient.Client
	logger   *logging.SafeLogger
}

// NewDeclarationService creates a new declaration service instance
func NewDeclarationService(database *mongo.Database, cache *redisclient.Client, logger *logging.SafeLogger) *DeclarationService {
	return &DeclarationService{
		database: database,
		cache:    cache,
		logger:   logger,
	}
}

// Global declaration service instance
var DeclarationServiceInstance *DeclarationService

// InitDeclarationService initializes the global declaration service instance
func InitDeclarationService() {
	DeclarationServiceInstance = NewDeclarationService(config.MongoDB, config.Redis, logging.Logger)
	logging.Logger.Info("declaration service initialized successfully")
}

// cacheKey builds the Redis key for a declaration id
func declarationCacheKey(id primitive.ObjectID) string {
	return "declaration:" + id.Hex()
}

// GetByID retrieves a declaration template, consulting the cache first
func (s *DeclarationService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Declaration, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, declarationCacheKey(id)).Result()
		if err == nil && cached != "" {
			var declaration models.Declaration
			if err := json.Unmarshal([]byte(cached), &declaration); err == nil {
				observability.CacheHits.WithLabelValues("hit").Inc()
				return &declaration, nil
			}
		}
		observability.CacheHits.WithLabelValues("miss").Inc()
	}

	collection := s.database.Collection(config.AppConfig.DeclarationCollection)

	var declaration models.Declaration
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&declaration)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrDeclarationNotFound
		}
		return nil, fmt.Errorf("failed to find declaration: %w", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(declaration); err == nil {
			if err := s.cache.Set(ctx, declarationCacheKey(id), payload, config.AppConfig.RedisTTL).Err(); err != nil {
				s.logger.Warn("failed to cache declaration",
					zap.String("declaration_id", id.Hex()),
					zap.Error(err))
			}
		}
	}

	s.logger.Debug("retrieved declaration",
		zap.String("declaration_id", id.Hex()),
		zap.String("title", declaration.Title))

	return &declaration, nil
}

// List returns all declaration templates ordered by title
func (s *DeclarationService) List(ctx context.Context) ([]models.Declaration, error) {
	collection := s.database.Collection(config.AppConfig.DeclarationCollection)

	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list declarations: %w", err)
	}
	defer cursor.Close(ctx)

	var declarations []models.Declaration
	if err = cursor.All(ctx, &declarations); err != nil {
		return nil, fmt.Errorf("failed to decode declarations: %w", err)
	}

	return declarations, nil
}
