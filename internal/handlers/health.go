package handlers

import (
	"net/http"
	"time"

	"github.com/crisdbarco/DeclaraFacil/internal/config"
	"github.com/crisdbarco/DeclaraFacil/internal/observability"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// HealthResponse is the health check payload
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck godoc
// @Summary Verificar saúde do serviço
// @Description Verifica a conectividade com MongoDB e Redis.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Serviço saudável"
// @Failure 503 {object} HealthResponse "Serviço indisponível"
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	span.SetAttributes(
		attribute.String("operation", "health_check"),
		attribute.String("service", "health"),
	)

	logger := observability.Logger()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  map[string]string{},
	}

	if err := config.MongoDB.Client().Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("mongodb health check failed", zap.Error(err))
		health.Status = "unhealthy"
		health.Services["mongodb"] = "unavailable"
	} else {
		health.Services["mongodb"] = "ok"
	}

	if config.Redis == nil || config.Redis.Ping(ctx).Err() != nil {
		// Redis is a cache; the service degrades but stays up without it
		health.Services["redis"] = "unavailable"
	} else {
		health.Services["redis"] = "ok"
	}

	if health.Status == "healthy" {
		c.JSON(http.StatusOK, health)
		return
	}
	c.JSON(http.StatusServiceUnavailable, health)
}
