package config

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/crisdbarco/DeclaraFacil/internal/logging"
	"github.com/crisdbarco/DeclaraFacil/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
)

var (
	// MongoDB client
	MongoDB *mongo.Database
	// Redis client
	Redis *redisclient.Client
)

// InitMongoDB initializes the MongoDB connection
func InitMongoDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatal(err)
	}

	// Ping the database
	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatal(err)
	}

	MongoDB = client.Database(AppConfig.MongoDatabase)

	if err := ensureIndexes(); err != nil {
		logging.Logger.Error("failed to ensure indexes on startup", zap.Error(err))
	}

	logging.Logger.Info("Connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
}

// InitRedis initializes the Redis connection
func InitRedis() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         AppConfig.RedisURI,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Wrap with traced client
	Redis = redisclient.NewClient(redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", AppConfig.RedisURI),
			zap.Error(err))
		return
	}

	logging.Logger.Info("connected to Redis",
		zap.String("uri", AppConfig.RedisURI))
}

// maskMongoURI masks sensitive information in MongoDB URI
func maskMongoURI(uri string) string {
	if !strings.Contains(uri, "@") {
		return uri
	}
	return "mongodb://****:****@" + uri[strings.LastIndex(uri, "@")+1:]
}

// ensureIndexes creates required indexes if they don't exist
func ensureIndexes() error {
	logger := zap.L().Named("database")
	logger.Info("ensuring required indexes exist")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ensurePendingRequestIndex(ctx, logger); err != nil {
		return err
	}

	if err := ensureGeneratedAtIndex(ctx, logger); err != nil {
		return err
	}

	if err := ensureUserIndex(ctx, logger); err != nil {
		return err
	}

	logger.Info("all required indexes verified")
	return nil
}

// ensurePendingRequestIndex creates the partial unique index that blocks two
// concurrent pending requests for the same (cpf, declaration) pair. The
// create-request path still does an existence check first; this index closes
// the race between check and insert.
func ensurePendingRequestIndex(ctx context.Context, logger *zap.Logger) error {
	collection := MongoDB.Collection(AppConfig.RequestCollection)

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "cpf", Value: 1}, {Key: "declaration_id", Value: 1}},
		Options: options.Index().
			SetName("cpf_declaration_pending_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "pending"}),
	}

	return createIndexIfMissing(ctx, logger, collection, indexModel, "cpf_declaration_pending_unique", AppConfig.RequestCollection)
}

// ensureGeneratedAtIndex creates the index backing the recently-generated listing
func ensureGeneratedAtIndex(ctx context.Context, logger *zap.Logger) error {
	collection := MongoDB.Collection(AppConfig.RequestCollection)

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "generated_at", Value: -1}},
		Options: options.Index().SetName("generated_at_-1"),
	}

	return createIndexIfMissing(ctx, logger, collection, indexModel, "generated_at_-1", AppConfig.RequestCollection)
}

// ensureUserIndex creates the unique index on cpf for the users collection
func ensureUserIndex(ctx context.Context, logger *zap.Logger) error {
	collection := MongoDB.Collection(AppConfig.UserCollection)

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "cpf", Value: 1}},
		Options: options.Index().
			SetName("cpf_1").
			SetUnique(true),
	}

	return createIndexIfMissing(ctx, logger, collection, indexModel, "cpf_1", AppConfig.UserCollection)
}

// createIndexIfMissing lists existing indexes first so restarts stay quiet
func createIndexIfMissing(ctx context.Context, logger *zap.Logger, collection *mongo.Collection, model mongo.IndexModel, name, collectionName string) error {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		logger.Error("failed to list indexes", zap.Error(err))
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if existing, ok := index["name"].(string); ok && existing == name {
			logger.Debug("index already exists",
				zap.String("collection", collectionName),
				zap.String("index", name))
			return nil
		}
	}

	_, err = collection.Indexes().CreateOne(ctx, model)
	if err != nil {
		// Another instance may have created it between list and create
		if mongo.IsDuplicateKeyError(err) {
			logger.Info("index already exists (created by another instance)",
				zap.String("collection", collectionName),
				zap.String("index", name))
			return nil
		}
		logger.Error("failed to create index",
			zap.String("collection", collectionName),
			zap.String("index", name),
			zap.Error(err))
		return err
	}

	logger.Info("created index",
		zap.String("collection", collectionName),
		zap.String("index", name))
	return nil
}
