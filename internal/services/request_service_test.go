package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/crisdbarco/DeclaraFacil/internal/config"
	"github.com/crisdbarco/DeclaraFacil/internal/logging"
	"github.com/crisdbarco/DeclaraFacil/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	testAdminCPF   = "11144477735"
	testCitizenCPF = "52998224725"
)

func setupRequestServiceTest(t *testing.T) (*RequestService, *mongo.Database, primitive.ObjectID, func()) {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		t.Skip("Skipping request service tests: MONGODB_URI not set")
	}

	logging.InitLogger()

	if config.AppConfig == nil {
		config.AppConfig = &config.Config{}
	}
	config.AppConfig.RequestCollection = "test_declaration_requests"
	config.AppConfig.DeclarationCollection = "test_declarations"
	config.AppConfig.UserCollection = "test_users"
	config.AppConfig.RecentGeneratedWindow = 7 * 24 * time.Hour

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := client.Database("declarafacil_test")
	config.MongoDB = database

	users := []interface{}{
		models.UserProfile{CPF: testAdminCPF, Name: "Carlos Atendente", IsAdmin: true},
		models.UserProfile{
			CPF:         testCitizenCPF,
			Name:        "Maria da Silva",
			Logradouro:  "Rua das Laranjeiras",
			Numero:      "120",
			Complemento: "apto 301",
			Bairro:      "Laranjeiras",
			Municipio:   "Rio de Janeiro",
			Estado:      "RJ",
			CEP:         "22240003",
			RG:          "12.345.678-9",
			OrgaoEmissor: "DETRAN-RJ",
		},
	}
	if _, err := database.Collection(config.AppConfig.UserCollection).InsertMany(ctx, users); err != nil {
		t.Fatalf("Failed to seed users: %v", err)
	}

	declaration := models.Declaration{
		ID:     primitive.NewObjectID(),
		Title:  "DECLARAÇÃO DE RESIDÊNCIA",
		Body:   "Declaro que {{nome}}, CPF {{cpf}}, reside em {{logradouro}}, {{numero}}{{complemento}}, {{bairro}}, {{municipio}}/{{estado}}, CEP {{cep}}.",
		Footer: "{{municipio}}, {{data_atual}}",
	}
	if _, err := database.Collection(config.AppConfig.DeclarationCollection).InsertOne(ctx, declaration); err != nil {
		t.Fatalf("Failed to seed declaration: %v", err)
	}

	userService := NewUserService(database, logging.Logger)
	declarationService := NewDeclarationService(database, nil, logging.Logger)
	service := NewRequestService(database, userService, declarationService, logging.Logger)

	return service, database, declaration.ID, func() {
		database.Drop(ctx)
		client.Disconnect(ctx)
	}
}

func TestCreateRequest(t *testing.T) {
	service, _, declID, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	view, err := service.CreateRequest(ctx, testCitizenCPF, declID.Hex())
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	if view.Status != string(models.StatusPending) {
		t.Errorf("CreateRequest() status = %v, want pending", view.Status)
	}
	if view.URL != "" {
		t.Errorf("CreateRequest() url = %v, want empty", view.URL)
	}
	if view.GeneratedAt != nil {
		t.Errorf("CreateRequest() generated_at = %v, want nil", view.GeneratedAt)
	}
	if view.DeclarationTitle != "DECLARAÇÃO DE RESIDÊNCIA" {
		t.Errorf("CreateRequest() title = %v", view.DeclarationTitle)
	}
}

func TestCreateRequest_DuplicatePending(t *testing.T) {
	service, _, declID, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := service.CreateRequest(ctx, testCitizenCPF, declID.Hex()); err != nil {
		t.Fatalf("first CreateRequest() error = %v", err)
	}

	_, err := service.CreateRequest(ctx, testCitizenCPF, declID.Hex())
	if !errors.Is(err, models.ErrDuplicatePending) {
		t.Errorf("second CreateRequest() error = %v, want ErrDuplicatePending", err)
	}
}

func TestCreateRequest_AdminDenied(t *testing.T) {
	service, _, declID, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	_, err := service.CreateRequest(context.Background(), testAdminCPF, declID.Hex())
	if !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("CreateRequest() by admin error = %v, want ErrPermissionDenied", err)
	}
}

func TestCreateRequest_DeclarationNotFound(t *testing.T) {
	service, _, _, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.CreateRequest(ctx, testCitizenCPF, primitive.NewObjectID().Hex())
	if !errors.Is(err, models.ErrDeclarationNotFound) {
		t.Errorf("CreateRequest() with unknown declaration error = %v, want ErrDeclarationNotFound", err)
	}

	_, err = service.CreateRequest(ctx, testCitizenCPF, "not-a-hex-id")
	if !errors.Is(err, models.ErrDeclarationNotFound) {
		t.Errorf("CreateRequest() with malformed id error = %v, want ErrDeclarationNotFound", err)
	}
}

func TestListAllRequests_Permissions(t *testing.T) {
	service, _, declID, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := service.CreateRequest(ctx, testCitizenCPF, declID.Hex()); err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	views, err := service.ListAllRequests(ctx, testAdminCPF)
	if err != nil {
		t.Fatalf("ListAllRequests() error = %v", err)
	}
	if len(views) != 1 {
		t.Errorf("ListAllRequests() len = %v, want 1", len(views))
	}

	_, err = service.ListAllRequests(ctx, testCitizenCPF)
	if !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("ListAllRequests() by citizen error = %v, want ErrPermissionDenied", err)
	}
}

func TestListOwnRequests(t *testing.T) {
	service, _, declID, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := service.CreateRequest(ctx, testCitizenCPF, declID.Hex()); err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	views, err := service.ListOwnRequests(ctx, testCitizenCPF)
	if err != nil {
		t.Fatalf("ListOwnRequests() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("ListOwnRequests() len = %v, want 1", len(views))
	}
	if views[0].AttendantName != "" {
		t.Errorf("ListOwnRequests() attendant = %q, want empty before generation", views[0].AttendantName)
	}

	_, err = service.ListOwnRequests(ctx, testAdminCPF)
	if !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("ListOwnRequests() by admin error = %v, want ErrPermissionDenied", err)
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	service, _, declID, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	view, err := service.CreateRequest(ctx, testCitizenCPF, declID.Hex())
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	id := view.ID

	// Terminal targets are only reachable out of processing; a pending
	// request must be skipped
	updated, err := service.UpdateStatus(ctx, testAdminCPF, []string{id}, models.StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if len(updated) != 0 {
		t.Errorf("UpdateStatus() pending->completed len = %v, want 0 (skipped)", len(updated))
	}

	updated, err = service.UpdateStatus(ctx, testAdminCPF, []string{id}, models.StatusProcessing)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if len(updated) != 1 || updated[0].Status != string(models.StatusProcessing) {
		t.Fatalf("UpdateStatus() pending->processing = %+v, want one processing view", updated)
	}

	updated, err = service.UpdateStatus(ctx, testAdminCPF, []string{id}, models.StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if len(updated) != 1 || updated[0].Status != string(models.StatusCompleted) {
		t.Fatalf("UpdateStatus() processing->completed = %+v, want one completed view", updated)
	}
}

func TestUpdateStatus_TerminalIsIdempotent(t *testing.T) {
	service, _, declID, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	view, err := service.CreateRequest(ctx, testCitizenCPF, declID.Hex())
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	id := view.ID

	if _, err := service.UpdateStatus(ctx, testAdminCPF, []string{id}, models.StatusProcessing); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if _, err := service.UpdateStatus(ctx, testAdminCPF, []string{id}, models.StatusRejected); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	// Any further transition attempt on a rejected request is omitted
	// from the result and leaves the status untouched
	for _, target := range []models.RequestStatus{models.StatusPending, models.StatusProcessing, models.StatusCompleted, models.StatusRejected} {
		updated, err := service.UpdateStatus(ctx, testAdminCPF, []string{id}, target)
		if err != nil {
			t.Fatalf("UpdateStatus(%s) error = %v", target, err)
		}
		if len(updated) != 0 {
			t.Errorf("UpdateStatus(%s) on terminal request len = %v, want 0", target, len(updated))
		}
	}

	objID, _ := primitive.ObjectIDFromHex(id)
	request, err := service.GetByID(ctx, objID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if request.Status != models.StatusRejected {
		t.Errorf("status after terminal updates = %v, want rejected", request.Status)
	}
}

func TestUpdateStatus_MalformedIDsSkipped(t *testing.T) {
	service, _, _, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	updated, err := service.UpdateStatus(context.Background(), testAdminCPF,
		[]string{"not-hex", primitive.NewObjectID().Hex()}, models.StatusProcessing)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if len(updated) != 0 {
		t.Errorf("UpdateStatus() with malformed and unknown ids len = %v, want 0", len(updated))
	}
}

func TestUpdateStatus_InvalidTarget(t *testing.T) {
	service, _, _, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	_, err := service.UpdateStatus(context.Background(), testAdminCPF, []string{primitive.NewObjectID().Hex()}, models.RequestStatus("archived"))
	if !errors.Is(err, models.ErrInvalidStatus) {
		t.Errorf("UpdateStatus() with invalid target error = %v, want ErrInvalidStatus", err)
	}
}

func TestListRecentGenerated_WindowBoundary(t *testing.T) {
	service, database, declID, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	ctx := context.Background()
	collection := database.Collection(config.AppConfig.RequestCollection)

	recentURL := "https://storage.example/recent.pdf"
	staleURL := "https://storage.example/stale.pdf"
	recentAt := time.Now().Add(-6 * 24 * time.Hour)
	staleAt := time.Now().Add(-(7*24*time.Hour + time.Second))

	docs := []interface{}{
		models.DeclarationRequest{
			ID:            primitive.NewObjectID(),
			CPF:           testCitizenCPF,
			DeclarationID: declID,
			Status:        models.StatusProcessing,
			URL:           &recentURL,
			CreatedAt:     recentAt.Add(-time.Hour),
			GeneratedAt:   &recentAt,
		},
		models.DeclarationRequest{
			ID:            primitive.NewObjectID(),
			CPF:           testCitizenCPF,
			DeclarationID: declID,
			Status:        models.StatusProcessing,
			URL:           &staleURL,
			CreatedAt:     staleAt.Add(-time.Hour),
			GeneratedAt:   &staleAt,
		},
	}
	if _, err := collection.InsertMany(ctx, docs); err != nil {
		t.Fatalf("Failed to seed generated requests: %v", err)
	}

	views, err := service.ListRecentGenerated(ctx, testAdminCPF)
	if err != nil {
		t.Fatalf("ListRecentGenerated() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("ListRecentGenerated() len = %v, want 1", len(views))
	}
	if views[0].URL != recentURL {
		t.Errorf("ListRecentGenerated() url = %v, want the 6-day-old request", views[0].URL)
	}
}

func TestPendingRequestInvariant(t *testing.T) {
	service, database, declID, cleanup := setupRequestServiceTest(t)
	defer cleanup()

	ctx := context.Background()

	view, err := service.CreateRequest(ctx, testCitizenCPF, declID.Hex())
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	objID, _ := primitive.ObjectIDFromHex(view.ID)
	var request models.DeclarationRequest
	err = database.Collection(config.AppConfig.RequestCollection).
		FindOne(ctx, bson.M{"_id": objID}).Decode(&request)
	if err != nil {
		t.Fatalf("Failed to load request: %v", err)
	}

	if request.Status == models.StatusPending && (request.URL != nil || request.GeneratedAt != nil) {
		t.Errorf("pending request carries url/generated_at: %+v", request)
	}
}
