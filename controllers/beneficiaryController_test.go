package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pricile448/amcb-sub000/models"
	"github.com/pricile448/amcb-sub000/services"
)

type stubBeneficiaryService struct {
	beneficiaries map[string][]models.Beneficiary
}

func newStubBeneficiaryService() *stubBeneficiaryService {
	return &stubBeneficiaryService{beneficiaries: map[string][]models.Beneficiary{}}
}

func (s *stubBeneficiaryService) List(ctx context.Context, userID string) ([]models.Beneficiary, error) {
	list, ok := s.beneficiaries[userID]
	if !ok {
		return nil, services.ErrNotFound
	}
	return list, nil
}

func (s *stubBeneficiaryService) Add(ctx context.Context, userID string, beneficiary *models.Beneficiary) error {
	if _, ok := s.beneficiaries[userID]; !ok {
		return services.ErrNotFound
	}
	s.beneficiaries[userID] = append(s.beneficiaries[userID], *beneficiary)
	return nil
}

func (s *stubBeneficiaryService) Delete(ctx context.Context, userID, beneficiaryID string) error {
	list := s.beneficiaries[userID]
	for i, b := range list {
		if b.ID == beneficiaryID {
			s.beneficiaries[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return services.ErrNotFound
}

func newBeneficiaryRouter(svc services.BeneficiaryService) *gin.Engine {
	bc := BeneficiaryConstructor(svc)
	router := gin.New()
	bc.BeneficiaryRoutes(router.Group("/api"))
	return router
}

func TestBeneficiaryCreateAndList(t *testing.T) {
	stub := newStubBeneficiaryService()
	stub.beneficiaries["u1"] = []models.Beneficiary{}
	router := newBeneficiaryRouter(stub)

	w := postJSON(t, router, "/api/beneficiaries/u1", gin.H{
		"name":     "Marie Dupont",
		"iban":     "FR7630006000011234567890189",
		"bic":      "AGRIFRPP",
		"nickname": "Maman",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)["beneficiary"].(map[string]interface{})
	if created["id"] == "" || created["nickname"] != "Maman" {
		t.Fatalf("beneficiary projection wrong: %v", created)
	}

	w = get(t, router, "/api/beneficiaries/u1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	list := decodeBody(t, w)["beneficiaries"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("expected 1 beneficiary, got %d", len(list))
	}
}

func TestBeneficiaryCreateRequiresNameAndIBAN(t *testing.T) {
	stub := newStubBeneficiaryService()
	stub.beneficiaries["u1"] = []models.Beneficiary{}
	router := newBeneficiaryRouter(stub)

	for name, payload := range map[string]gin.H{
		"no name": {"iban": "FR7630006000011234567890189"},
		"no iban": {"name": "Marie Dupont"},
	} {
		w := postJSON(t, router, "/api/beneficiaries/u1", payload)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, w.Code)
		}
	}
}

func TestBeneficiaryUnknownUserIsA404(t *testing.T) {
	router := newBeneficiaryRouter(newStubBeneficiaryService())

	w := get(t, router, "/api/beneficiaries/ghost")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "Utilisateur introuvable" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestBeneficiaryDelete(t *testing.T) {
	stub := newStubBeneficiaryService()
	stub.beneficiaries["u1"] = []models.Beneficiary{{ID: "b1", Name: "Marie Dupont"}}
	router := newBeneficiaryRouter(stub)

	req := httptest.NewRequest(http.MethodDelete, "/api/beneficiaries/u1/b1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(stub.beneficiaries["u1"]) != 0 {
		t.Fatalf("beneficiary not removed: %v", stub.beneficiaries["u1"])
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/beneficiaries/u1/b1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an already-deleted id, got %d", w.Code)
	}
}
