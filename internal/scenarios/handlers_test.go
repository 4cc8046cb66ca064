package scenarios

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/plannetic/advisor-hub/internal/storage"
	"github.com/plannetic/advisor-hub/internal/storage/memory"
)

func newTestRouter(t *testing.T) (http.Handler, *Service, uuid.UUID) {
	t.Helper()

	store := memory.New()
	client := &storage.Client{ID: uuid.New(), FirstName: "Margaret", LastName: "Holt"}
	if err := store.Clients().CreateClient(context.Background(), client); err != nil {
		t.Fatal(err)
	}

	svc := NewService(store.Scenarios(), store.Clients())
	h := NewHandler(svc)
	r := chi.NewRouter()
	h.Routes(r)
	return r, svc, client.ID
}

func validRequest(clientID uuid.UUID) CreateScenarioRequest {
	return CreateScenarioRequest{
		ClientID:        clientID.String(),
		Name:            "Retirement at 65",
		Kind:            "retirement",
		CurrentAge:      50,
		RetirementAge:   65,
		StatePensionAge: 68,
		LifeExpectancy:  90,
		PensionValue:    300000,
		AnnualIncome:    80000,
		AnnualExpenses:  50000,
		GrowthRate:      0.05,
		InflationRate:   0.025,
	}
}

func TestHandleCreate(t *testing.T) {
	router, _, clientID := newTestRouter(t)

	body, _ := json.Marshal(validRequest(clientID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/scenarios",
		bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp ScenarioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Kind != "retirement" {
		t.Errorf("kind = %q", resp.Kind)
	}
	// Horizon defaults to life expectancy minus current age.
	if resp.HorizonYears != 40 {
		t.Errorf("horizonYears = %d, want 40", resp.HorizonYears)
	}
}

func TestHandleCreate_UnknownClient(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body, _ := json.Marshal(validRequest(uuid.New()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/scenarios",
		bytes.NewReader(body)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCreateScenario_Validation(t *testing.T) {
	_, svc, clientID := newTestRouter(t)
	ctx := context.Background()

	req := validRequest(clientID)
	req.Name = "  "
	if _, err := svc.CreateScenario(ctx, req); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name: err = %v", err)
	}

	req = validRequest(clientID)
	req.Kind = "speculation"
	if _, err := svc.CreateScenario(ctx, req); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("bad kind: err = %v", err)
	}

	req = validRequest(clientID)
	req.ClientID = "not-a-uuid"
	if _, err := svc.CreateScenario(ctx, req); !errors.Is(err, ErrInvalidClient) {
		t.Errorf("bad client id: err = %v", err)
	}

	req = validRequest(clientID)
	req.RetirementAge = 40 // below current age
	if _, err := svc.CreateScenario(ctx, req); !errors.Is(err, ErrInvalidAges) {
		t.Errorf("bad ages: err = %v", err)
	}

	req = validRequest(clientID)
	req.LifeExpectancy = 60 // below retirement age
	if _, err := svc.CreateScenario(ctx, req); !errors.Is(err, ErrInvalidAges) {
		t.Errorf("bad life expectancy: err = %v", err)
	}
}

func TestCreateScenario_KindDefaultsAndNormalizes(t *testing.T) {
	_, svc, clientID := newTestRouter(t)
	ctx := context.Background()

	req := validRequest(clientID)
	req.Kind = ""
	sc, err := svc.CreateScenario(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Kind != "retirement" {
		t.Errorf("kind = %q, want retirement default", sc.Kind)
	}

	req = validRequest(clientID)
	req.Kind = "  Drawdown "
	sc, err = svc.CreateScenario(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Kind != "drawdown" {
		t.Errorf("kind = %q, want drawdown", sc.Kind)
	}
}

func TestHandleList_FiltersByClient(t *testing.T) {
	router, svc, clientID := newTestRouter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		req := validRequest(clientID)
		req.Name = fmt.Sprintf("Scenario %d", i)
		if _, err := svc.CreateScenario(ctx, req); err != nil {
			t.Fatal(err)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/scenarios?client_id="+clientID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp ScenariosResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Scenarios) != 2 {
		t.Errorf("scenarios = %d, want 2", len(resp.Scenarios))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/scenarios?client_id="+uuid.NewString(), nil))
	var other ScenariosResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &other); err != nil {
		t.Fatal(err)
	}
	if len(other.Scenarios) != 0 {
		t.Errorf("unrelated client sees %d scenarios", len(other.Scenarios))
	}
}

func TestHandleGet_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/scenarios/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleCreate_CapitalEventsRoundTrip(t *testing.T) {
	router, _, clientID := newTestRouter(t)

	req := validRequest(clientID)
	req.CapitalEvents = []storage.CapitalEvent{
		{Age: 60, Label: "Inheritance", Amount: 100000},
		{Age: 70, Label: "House downsize", Amount: 150000},
	}
	body, _ := json.Marshal(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/scenarios",
		bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ScenarioResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.CapitalEvents) != 2 || resp.CapitalEvents[0].Label != "Inheritance" {
		t.Errorf("capitalEvents = %+v", resp.CapitalEvents)
	}
}
