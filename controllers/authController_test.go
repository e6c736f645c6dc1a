package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pricile448/amcb-sub000/models"
	"github.com/pricile448/amcb-sub000/services"
	helper "github.com/pricile448/amcb-sub000/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("SECRET_KEY", "test-secret")
	os.Exit(m.Run())
}

type stubUserService struct {
	users   map[string]*models.User // keyed by email
	created []*models.User
	err     error // when set, every read fails with it
}

func newStubUserService() *stubUserService {
	return &stubUserService{users: map[string]*models.User{}}
}

func (s *stubUserService) CreateUser(ctx context.Context, user *models.User) error {
	s.users[user.Email] = user
	s.created = append(s.created, user)
	return nil
}

func (s *stubUserService) GetUser(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[email]
	if !ok {
		return nil, services.ErrNotFound
	}
	return user, nil
}

func (s *stubUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, services.ErrNotFound
}

func (s *stubUserService) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, ok := s.users[email]
	return ok, nil
}

func (s *stubUserService) MarkEmailVerified(ctx context.Context, email string) error {
	user, ok := s.users[email]
	if !ok {
		return services.ErrNotFound
	}
	user.EmailVerified = true
	return nil
}

func (s *stubUserService) UpdateKYCStatus(ctx context.Context, id, status string) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	user.KYCStatus = status
	return nil
}

func (s *stubUserService) AddKYCDocument(ctx context.Context, id string, doc models.Document) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	user.Documents = append(user.Documents, doc)
	return nil
}

type stubMailer struct{ fail bool }

func (m *stubMailer) SendVerificationCode(to, code string) error {
	if m.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func newAuthRouter(users services.UserService, mailer services.Mailer, debugMode bool) *gin.Engine {
	verification := services.VerificationConstructor(
		services.NewMemoryCodeStore(), mailer, users, debugMode)
	ac := AuthConstructor(users, verification)

	router := gin.New()
	ac.AuthRoutes(router.Group("/api"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, router, http.MethodPost, path, body)
}

func putJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, router, http.MethodPut, path, body)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRegisterReturnsUnverifiedUserWithoutKYCField(t *testing.T) {
	users := newStubUserService()
	router := newAuthRouter(users, &stubMailer{}, false)

	w := postJSON(t, router, "/api/auth/register", gin.H{
		"email":     "new@amcbunq.fr",
		"password":  "secret123",
		"firstName": "Ana",
		"lastName":  "Martin",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatal("expected success true")
	}
	if body["access"] == "" || body["refresh"] == "" {
		t.Fatal("expected a token pair")
	}

	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing user object in %v", body)
	}
	if user["verificationStatus"] != "unverified" {
		t.Fatalf("verificationStatus = %v", user["verificationStatus"])
	}
	if _, present := user["kycStatus"]; present {
		t.Fatal("kycStatus must not appear in the register response")
	}
	accounts, ok := user["accounts"].([]interface{})
	if !ok || len(accounts) != 0 {
		t.Fatalf("accounts should be an empty array, got %v", user["accounts"])
	}
	if user["isEmailVerified"] != false {
		t.Fatalf("isEmailVerified = %v", user["isEmailVerified"])
	}

	if len(users.created) != 1 {
		t.Fatalf("expected one stored user, got %d", len(users.created))
	}
	if users.created[0].Password == "secret123" {
		t.Fatal("password stored in cleartext")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newStubUserService()
	users.users["dup@amcbunq.fr"] = &models.User{ID: "u1", Email: "dup@amcbunq.fr"}
	router := newAuthRouter(users, &stubMailer{}, false)

	w := postJSON(t, router, "/api/auth/register", gin.H{
		"email":    "dup@amcbunq.fr",
		"password": "secret123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "Cet email est déjà utilisé." {
		t.Fatalf("message = %v", body["message"])
	}
	if body["success"] != false {
		t.Fatal("expected success false")
	}
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	router := newAuthRouter(newStubUserService(), &stubMailer{}, false)

	for name, payload := range map[string]gin.H{
		"bad email":      {"email": "not-an-email", "password": "secret123"},
		"short password": {"email": "a@b.fr", "password": "abc"},
		"no password":    {"email": "a@b.fr"},
	} {
		w := postJSON(t, router, "/api/auth/register", payload)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, w.Code)
		}
	}
}

func TestLoginFailureIsIndistinguishable(t *testing.T) {
	users := newStubUserService()
	users.users["known@amcbunq.fr"] = &models.User{
		ID:       "u1",
		Email:    "known@amcbunq.fr",
		Password: helper.HashPassword("rightpass"),
	}
	router := newAuthRouter(users, &stubMailer{}, false)

	unknownEmail := postJSON(t, router, "/api/auth/login", gin.H{
		"email": "ghost@amcbunq.fr", "password": "whatever",
	})
	wrongPassword := postJSON(t, router, "/api/auth/login", gin.H{
		"email": "known@amcbunq.fr", "password": "wrongpass",
	})

	if unknownEmail.Code != http.StatusUnauthorized || wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknownEmail.Code, wrongPassword.Code)
	}
	if unknownEmail.Body.String() != wrongPassword.Body.String() {
		t.Fatalf("failure responses differ:\n%s\n%s",
			unknownEmail.Body.String(), wrongPassword.Body.String())
	}
}

func TestLoginStoreFailureIsNotA401(t *testing.T) {
	users := newStubUserService()
	users.err = errors.New("store down")
	router := newAuthRouter(users, &stubMailer{}, false)

	w := postJSON(t, router, "/api/auth/login", gin.H{
		"email": "known@amcbunq.fr", "password": "rightpass",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("a store failure must not look like bad credentials: got %d", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "Une erreur est survenue" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestLoginSuccessExposesKYCStatus(t *testing.T) {
	users := newStubUserService()
	users.users["ok@amcbunq.fr"] = &models.User{
		ID:        "u1",
		Email:     "ok@amcbunq.fr",
		Password:  helper.HashPassword("rightpass"),
		KYCStatus: models.KYCPending,
		Accounts: []models.Account{
			{ID: "u1_checking", Name: models.AccountChecking, Balance: 120.5},
		},
	}
	router := newAuthRouter(users, &stubMailer{}, false)

	w := postJSON(t, router, "/api/auth/login", gin.H{
		"email": "ok@amcbunq.fr", "password": "rightpass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	user := decodeBody(t, w)["user"].(map[string]interface{})
	if user["kycStatus"] != "pending" || user["verificationStatus"] != "pending" {
		t.Fatalf("status projection wrong: %v", user)
	}
	accounts := user["accounts"].([]interface{})
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
}

func TestRefreshIssuesNewTokenPair(t *testing.T) {
	router := newAuthRouter(newStubUserService(), &stubMailer{}, false)

	_, refresh, err := helper.TokenGenerator("u1", "a@b.fr")
	if err != nil {
		t.Fatal(err)
	}

	w := postJSON(t, router, "/api/auth/refresh", gin.H{"refresh": refresh})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["access"] == "" || body["refresh"] == "" {
		t.Fatal("expected a fresh token pair")
	}

	w = postJSON(t, router, "/api/auth/refresh", gin.H{"refresh": "garbage"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad refresh token, got %d", w.Code)
	}
}

func TestVerificationCodeFlowOverHTTP(t *testing.T) {
	users := newStubUserService()
	users.users["v@amcbunq.fr"] = &models.User{ID: "u1", Email: "v@amcbunq.fr"}
	// Debug mode hands the code back so the test can replay it.
	router := newAuthRouter(users, &stubMailer{fail: true}, true)

	w := postJSON(t, router, "/api/sendVerificationCode", gin.H{"email": "v@amcbunq.fr"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["debug"] != true {
		t.Fatalf("expected debug fallback, got %v", body)
	}
	code, _ := body["code"].(string)
	if len(code) != 6 {
		t.Fatalf("expected a 6-digit code, got %q", code)
	}

	w = postJSON(t, router, "/api/verifyCode", gin.H{"email": "v@amcbunq.fr", "code": "999999x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a wrong code, got %d", w.Code)
	}

	w = postJSON(t, router, "/api/verifyCode", gin.H{"email": "v@amcbunq.fr", "code": code})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !users.users["v@amcbunq.fr"].EmailVerified {
		t.Fatal("user should be marked email-verified")
	}

	// The code is single-use.
	w = postJSON(t, router, "/api/verifyCode", gin.H{"email": "v@amcbunq.fr", "code": code})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on replay, got %d", w.Code)
	}
}
