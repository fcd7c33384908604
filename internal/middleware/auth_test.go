package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crisdbarco/DeclaraFacil/internal/logging"
	"github.com/crisdbarco/DeclaraFacil/internal/models"
	"github.com/gin-gonic/gin"
)

func init() {
	logging.InitLogger()
	gin.SetMode(gin.TestMode)
}

func createTestJWT(claims models.JWTClaims) string {
	claimsJSON, _ := json.Marshal(claims)
	claimsB64 := base64.RawURLEncoding.EncodeToString(claimsJSON)

	// Create a fake JWT (header.payload.signature)
	return "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9." + claimsB64 + ".fake-signature"
}

func TestAuthMiddleware_Success(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware())
	router.GET("/test", func(c *gin.Context) {
		cpf, err := CallerCPF(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cpf": cpf})
	})

	claims := models.JWTClaims{
		SUB:               "user123",
		ISS:               "test-issuer",
		PreferredUsername: "52998224725",
	}
	token := createTestJWT(claims)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("AuthMiddleware() status = %v, want %v", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["cpf"] != "52998224725" {
		t.Errorf("CallerCPF() = %v, want 52998224725", body["cpf"])
	}
}

func TestAuthMiddleware_NoAuthHeader(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("AuthMiddleware() without header status = %v, want %v", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router := gin.New()
	router.Use(AuthMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing Bearer prefix", "Token abc.def.ghi"},
		{"no token", "Bearer"},
		{"not a JWT", "Bearer not-a-jwt"},
		{"bad base64 claims", "Bearer aaa.!!!.ccc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("AuthMiddleware() status = %v, want %v", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestCallerCPF_NoClaims(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, err := CallerCPF(c); err == nil {
		t.Error("CallerCPF() without claims expected error, got nil")
	}
}

func TestCallerCPF_InvalidCPF(t *testing.T) {
	tests := []struct {
		name string
		cpf  string
	}{
		{"wrong check digit", "52998224724"},
		{"repeated digits", "11111111111"},
		{"too short", "123"},
		{"not numeric", "not-a-cpf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Set("claims", &models.JWTClaims{PreferredUsername: tt.cpf})

			if _, err := CallerCPF(c); err == nil {
				t.Errorf("CallerCPF() with CPF %q expected error, got nil", tt.cpf)
			}
		})
	}
}

func TestCallerCPF_NoPreferredUsername(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("claims", &models.JWTClaims{SUB: "user123"})

	if _, err := CallerCPF(c); err == nil {
		t.Error("CallerCPF() without preferred_username expected error, got nil")
	}
}
