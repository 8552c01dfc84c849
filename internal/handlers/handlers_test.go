package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spamlookup/spamlookup-backend/internal/handlers"
	"github.com/spamlookup/spamlookup-backend/internal/models"
	"github.com/spamlookup/spamlookup-backend/internal/routes"
	"github.com/spamlookup/spamlookup-backend/internal/store"
	"github.com/spamlookup/spamlookup-backend/pkg/utils"
)

// fakeSessions is an in-memory SessionManager for handler tests.
type fakeSessions struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
	next   int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]uuid.UUID{}}
}

func (f *fakeSessions) Create(_ context.Context, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	token := fmt.Sprintf("test-token-%d", f.next)
	f.tokens[token] = userID
	return token, nil
}

func (f *fakeSessions) Validate(_ context.Context, token string) (uuid.UUID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.tokens[token]
	return userID, ok, nil
}

func (f *fakeSessions) Invalidate(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

type testEnv struct {
	router   *chi.Mux
	stores   *store.Stores
	sessions *fakeSessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	stores := store.NewMemoryStores()
	sessions := newFakeSessions()
	h := handlers.New(stores, sessions)

	router := chi.NewRouter()
	routes.SetupRoutes(router, h, false)

	return &testEnv{router: router, stores: stores, sessions: sessions}
}

// signup creates a user directly in the store and opens a session for it.
func (e *testEnv) signup(t *testing.T, name, username, phone, email string) (*models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Username:     username,
		PhoneNumber:  phone,
		Email:        email,
		PasswordHash: hash,
	}
	require.NoError(t, e.stores.Users.Create(context.Background(), user))

	token, err := e.sessions.Create(context.Background(), user.ID)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
		"name":         "User One",
		"username":     "user1",
		"phone_number": "+1234567890",
		"email":        "user1@example.com",
		"password":     "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "user1", body["username"])
	assert.Equal(t, "+1234567890", body["phone_number"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "User One", "user1", "+1234567890", "")

	rec := env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
		"username":     "user1",
		"phone_number": "+1999999999",
		"password":     "password123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A user with this username already exists.", decodeBody(t, rec)["error"])

	rec = env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
		"username":     "user2",
		"phone_number": "+1234567890",
		"password":     "password123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A user with this phone number already exists.", decodeBody(t, rec)["error"])
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	// Missing required fields
	rec := env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
		"username": "user1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username, password, and phone number are required", decodeBody(t, rec)["error"])

	// Malformed phone number
	rec = env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
		"username":     "user1",
		"password":     "password123",
		"phone_number": "not-a-number",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrInvalidPhoneNumber.Error(), decodeBody(t, rec)["error"])

	// Malformed email
	rec = env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
		"username":     "user1",
		"password":     "password123",
		"phone_number": "+1234567890",
		"email":        "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Enter a valid email address.", decodeBody(t, rec)["error"])
}

func TestLoginLogoutFlow(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "User One", "user1", "+1234567890", "")

	rec := env.do(t, http.MethodPost, "/api/login/", "", map[string]string{
		"username": "user1",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Login successful", body["message"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// Logging in again with the token is a no-op
	rec = env.do(t, http.MethodPost, "/api/login/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "You are already logged in.", decodeBody(t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/api/logout/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully logged out.", decodeBody(t, rec)["message"])

	// Second logout with the now dead token
	rec = env.do(t, http.MethodPost, "/api/logout/", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You are already logged out.", decodeBody(t, rec)["detail"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "User One", "user1", "+1234567890", "")

	const want = "Invalid credentials. Please verify your login details or register for a new account."

	rec := env.do(t, http.MethodPost, "/api/login/", "", map[string]string{
		"username": "user1",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, want, decodeBody(t, rec)["message"])

	rec = env.do(t, http.MethodPost, "/api/login/", "", map[string]string{
		"username": "nobody",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, want, decodeBody(t, rec)["message"])
}

func TestUnauthenticatedMessages(t *testing.T) {
	env := newTestEnv(t)

	// No Authorization header at all
	rec := env.do(t, http.MethodGet, "/api/contacts/", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Please register an account", decodeBody(t, rec)["detail"])

	// Invalid token
	rec = env.do(t, http.MethodGet, "/api/contacts/", "bogus", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "You are not logged in. Please login.", decodeBody(t, rec)["detail"])
}

func TestContactCRUD(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "User One", "user1", "+1234567890", "")

	rec := env.do(t, http.MethodPost, "/api/contacts/", token, map[string]string{
		"name":         "Jane",
		"phone_number": "+1122334455",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	contactID, _ := created["id"].(string)
	require.NotEmpty(t, contactID)
	assert.Equal(t, "Jane", created["name"])

	// Duplicate phone number for the same owner
	rec = env.do(t, http.MethodPost, "/api/contacts/", token, map[string]string{
		"name":         "Jane Again",
		"phone_number": "+1122334455",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A contact with this phone number already exists.", decodeBody(t, rec)["error"])

	rec = env.do(t, http.MethodGet, "/api/contacts/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	rec = env.do(t, http.MethodGet, "/api/contacts/"+contactID+"/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jane", decodeBody(t, rec)["name"])

	rec = env.do(t, http.MethodPut, "/api/contacts/"+contactID+"/", token, map[string]interface{}{
		"name":    "Jane Doe",
		"is_spam": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody(t, rec)
	assert.Equal(t, "Jane Doe", updated["name"])
	assert.Equal(t, true, updated["is_spam"])
	// Phone number untouched by the partial update
	assert.Equal(t, "+1122334455", updated["phone_number"])

	rec = env.do(t, http.MethodDelete, "/api/contacts/"+contactID+"/", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/contacts/"+contactID+"/", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Contact not found.", decodeBody(t, rec)["error"])
}

func TestContactOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.signup(t, "Owner", "owner", "+1234567890", "")
	_, otherToken := env.signup(t, "Other", "other", "+1987654321", "")

	rec := env.do(t, http.MethodPost, "/api/contacts/", ownerToken, map[string]string{
		"name":         "Jane",
		"phone_number": "+1122334455",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	contactID, _ := decodeBody(t, rec)["id"].(string)
	require.NotEmpty(t, contactID)

	const notYours = "The requested object does not belong to you."

	rec = env.do(t, http.MethodGet, "/api/contacts/"+contactID+"/", otherToken, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, notYours, decodeBody(t, rec)["error"])

	rec = env.do(t, http.MethodPut, "/api/contacts/"+contactID+"/", otherToken, map[string]string{"name": "Hijacked"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, notYours, decodeBody(t, rec)["error"])

	rec = env.do(t, http.MethodDelete, "/api/contacts/"+contactID+"/", otherToken, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, notYours, decodeBody(t, rec)["error"])

	// The owner can still read it
	rec = env.do(t, http.MethodGet, "/api/contacts/"+contactID+"/", ownerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContactListIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	_, tokenA := env.signup(t, "User A", "usera", "+1000000001", "")
	_, tokenB := env.signup(t, "User B", "userb", "+1000000002", "")

	rec := env.do(t, http.MethodPost, "/api/contacts/", tokenA, map[string]string{
		"name": "Jane", "phone_number": "+1122334455",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/contacts/", tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeList(t, rec))
}

func TestReportSpamEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.signup(t, "User One", "user1", "+1234567890", "")

	rec := env.do(t, http.MethodPost, "/api/report-spam/", token, map[string]string{
		"phone_number": "+1122334455",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Marked as spam", decodeBody(t, rec)["message"])

	report, err := env.stores.Spam.GetReport(context.Background(), "+1122334455")
	require.NoError(t, err)
	assert.Equal(t, 1, report.SpamCount)

	// Reporting your own number is rejected
	rec = env.do(t, http.MethodPost, "/api/report-spam/", token, map[string]string{
		"phone_number": user.PhoneNumber,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You are not allowed to mark your own number as spam.", decodeBody(t, rec)["error"])

	rec = env.do(t, http.MethodPost, "/api/report-spam/", token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Phone number is required", decodeBody(t, rec)["error"])

	rec = env.do(t, http.MethodPost, "/api/report-spam/", token, map[string]string{
		"phone_number": "garbage",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, utils.ErrInvalidPhoneNumber.Error(), decodeBody(t, rec)["error"])
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "Requester", "req", "+1000000001", "")

	rec := env.do(t, http.MethodPost, "/api/contacts/", token, map[string]string{
		"name": "Alice Anderson", "phone_number": "+1122334455",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/search/?query=Alice", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeList(t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, "Alice Anderson", results[0]["name"])
	assert.Equal(t, "+1122334455", results[0]["phone_number"])
	assert.Equal(t, float64(0), results[0]["spam_count"])

	// Both parameters present: name mode wins
	rec = env.do(t, http.MethodGet, "/api/search/?query=Alice&phone_number=%2B1999999999", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	// Neither parameter
	rec = env.do(t, http.MethodGet, "/api/search/", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "At least one search query is required", decodeBody(t, rec)["error"])

	// Phone search with no match anywhere
	rec = env.do(t, http.MethodGet, "/api/search/?phone_number=%2B1999999999", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No contacts found.", decodeBody(t, rec)["error"])

	// Name search with no match returns an empty list, not 404
	rec = env.do(t, http.MethodGet, "/api/search/?query=zzz", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeList(t, rec))
}

func TestMaxLengthPhoneNumbersAccepted(t *testing.T) {
	env := newTestEnv(t)

	// "+1" followed by 15 digits is the widest value the validator accepts;
	// every write path must take it
	const userPhone = "+1123456789012345"
	const contactPhone = "+1999999999999999"

	rec := env.do(t, http.MethodPost, "/api/register/", "", map[string]string{
		"name":         "User One",
		"username":     "user1",
		"phone_number": userPhone,
		"password":     "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userPhone, decodeBody(t, rec)["phone_number"])

	user, err := env.stores.Users.GetByPhone(context.Background(), userPhone)
	require.NoError(t, err)
	token, err := env.sessions.Create(context.Background(), user.ID)
	require.NoError(t, err)

	rec = env.do(t, http.MethodPost, "/api/contacts/", token, map[string]string{
		"name": "Long Number", "phone_number": contactPhone,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/report-spam/", token, map[string]string{
		"phone_number": contactPhone,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/search/?phone_number=%2B1999999999999999", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeList(t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, contactPhone, results[0]["phone_number"])
	assert.Equal(t, float64(1), results[0]["spam_count"])
}

func TestSearchEmailKeyOmittedWhenUndisclosed(t *testing.T) {
	env := newTestEnv(t)
	_, reqToken := env.signup(t, "Requester", "req", "+1000000001", "")
	alice, _ := env.signup(t, "Alice Smith", "alice", "+1122334455", "alice@example.com")

	rec := env.do(t, http.MethodGet, "/api/search/?query=Alice", reqToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeList(t, rec)
	require.Len(t, results, 1)
	assert.NotContains(t, results[0], "email")

	// Saving Alice's number flips the disclosure
	rec = env.do(t, http.MethodPost, "/api/contacts/", reqToken, map[string]string{
		"name": "Alice S", "phone_number": alice.PhoneNumber,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/search/?query=Alice", reqToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results = decodeList(t, rec)
	require.Len(t, results, 1)
	assert.Equal(t, "alice@example.com", results[0]["email"])
}
