package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-app/moneta-server/internal/application"
	"github.com/moneta-app/moneta-server/internal/domain/entity"
	"github.com/moneta-app/moneta-server/internal/domain/repository"
	handlers "github.com/moneta-app/moneta-server/internal/interface/http"
	"github.com/moneta-app/moneta-server/internal/router"
	"github.com/moneta-app/moneta-server/internal/router/modules"
	"github.com/moneta-app/moneta-server/pkg/helpers"
	"github.com/moneta-app/moneta-server/pkg/validation"
)

// In-memory repositories mirroring the postgres implementations.

type memUserRepo struct {
	users []entity.User
	seq   int
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users = append(r.users, *u)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memTxRepo struct {
	items []entity.Transaction
	seq   int
}

func (r *memTxRepo) Create(_ context.Context, t *entity.Transaction) error {
	r.seq++
	t.ID = fmt.Sprintf("tx-%d", r.seq)
	t.CreatedAt = time.Now().UTC().Add(time.Duration(r.seq) * time.Millisecond)
	t.UpdatedAt = t.CreatedAt
	r.items = append(r.items, *t)
	return nil
}

func (r *memTxRepo) GetByID(_ context.Context, userID, id string) (*entity.Transaction, error) {
	for _, t := range r.items {
		if t.ID == id && t.UserID == userID {
			cp := t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memTxRepo) List(_ context.Context, userID string, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	out := make([]*entity.Transaction, 0)
	for _, t := range r.items {
		if t.UserID != userID {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Start != nil && t.Date.Before(*f.Start) {
			continue
		}
		if f.End != nil && t.Date.After(*f.End) {
			continue
		}
		cp := t
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memTxRepo) Update(_ context.Context, t *entity.Transaction) error {
	for i, existing := range r.items {
		if existing.ID == t.ID && existing.UserID == t.UserID {
			r.items[i] = *t
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memTxRepo) Delete(_ context.Context, userID, id string) error {
	for i, t := range r.items {
		if t.ID == id && t.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memTxRepo) ExpenseByCategory(_ context.Context, userID string, start, end *time.Time) ([]entity.CategoryTotal, error) {
	sums := map[string]decimal.Decimal{}
	for _, t := range r.items {
		if t.UserID != userID || t.Type != entity.TypeExpense {
			continue
		}
		if start != nil && t.Date.Before(*start) {
			continue
		}
		if end != nil && t.Date.After(*end) {
			continue
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}
	out := make([]entity.CategoryTotal, 0, len(sums))
	for cat, total := range sums {
		out = append(out, entity.CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out, nil
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	jwtm := helpers.NewJWTManager("test-secret", time.Hour)
	users := &memUserRepo{}
	txs := &memTxRepo{}

	authSvc := application.NewAuthService(users, jwtm, logger)
	txSvc := application.NewTransactionService(txs, logger)

	r := gin.New()
	r.GET("/health", handlers.Health)

	reg := router.NewRegistry(r)
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), jwtm, nil))
	reg.Add(modules.NewTransactionModule(handlers.NewTransactionHandler(txSvc, logger), jwtm, nil))
	reg.Add(modules.NewHealthModule())
	reg.RegisterAll()
	return r
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func signup(t *testing.T, r *gin.Engine, name, email string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": name, "email": email, "password": "secretpass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

// -- Auth boundary --

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	r := newTestServer(t)

	for _, path := range []string{"/api/transactions", "/api/profile/me"} {
		w, env := do(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "unauthorized", env.Kind, path)
	}
}

func TestProtectedRoutesRejectBadToken(t *testing.T) {
	r := newTestServer(t)

	w, env := do(t, r, http.MethodGet, "/api/transactions", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", env.Kind)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	r := newTestServer(t)
	signup(t, r, "Alice", "alice@example.com")

	w, env := do(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Mallory", "email": "alice@example.com", "password": "secretpass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", env.Kind)
}

func TestSignupValidatesPayload(t *testing.T) {
	r := newTestServer(t)

	w, env := do(t, r, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Kind)

	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
}

func TestLoginAndProfile(t *testing.T) {
	r := newTestServer(t)
	signup(t, r, "Alice", "alice@example.com")

	w, env := do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "secretpass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "alice@example.com", data.User.Email)

	w, env = do(t, r, http.MethodGet, "/api/profile/me", data.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Alice", me.User.Name)
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestServer(t)
	signup(t, r, "Alice", "alice@example.com")

	w, env := do(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrongpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", env.Kind)
}

// -- Transactions --

func createTx(t *testing.T, r *gin.Engine, token string, body gin.H) map[string]any {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/transactions", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestCreateAndListWithTotals(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Alice", "alice@example.com")

	createTx(t, r, token, gin.H{
		"title": "Coffee", "amount": 4.50, "type": "Expense", "category": "Food", "date": "2024-01-05",
	})
	createTx(t, r, token, gin.H{
		"title": "Salary", "amount": 2000, "type": "Income", "category": "Work", "date": "2024-01-01",
	})

	w, env := do(t, r, http.MethodGet, "/api/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Items []struct {
			Title  string `json:"title"`
			Amount string `json:"amount"`
		} `json:"items"`
		Totals struct {
			Income  string `json:"income"`
			Expense string `json:"expense"`
			Balance string `json:"balance"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	require.Len(t, data.Items, 2)
	assert.Equal(t, "Coffee", data.Items[0].Title)
	assert.Equal(t, "Salary", data.Items[1].Title)
	assert.Equal(t, "2000", data.Totals.Income)
	assert.Equal(t, "4.5", data.Totals.Expense)
	assert.Equal(t, "1995.5", data.Totals.Balance)
}

func TestCreateReportsAllViolations(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Alice", "alice@example.com")

	w, env := do(t, r, http.MethodPost, "/api/transactions", token, gin.H{
		"title": "", "amount": -3, "type": "Loan", "category": "", "date": "bogus",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Kind)

	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Len(t, details, 5)
}

func TestListInvalidDateFilterRejected(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Alice", "alice@example.com")

	w, env := do(t, r, http.MethodGet, "/api/transactions?start=notadate", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Kind)

	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Contains(t, details, "start")
}

func TestListStartAfterEndReturnsEmpty(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Alice", "alice@example.com")
	createTx(t, r, token, gin.H{
		"title": "Coffee", "amount": 4.50, "type": "Expense", "category": "Food", "date": "2024-01-05",
	})

	w, env := do(t, r, http.MethodGet, "/api/transactions?start=2024-06-01&end=2024-01-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Items  []any `json:"items"`
		Totals struct {
			Balance string `json:"balance"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Items)
	assert.Equal(t, "0", data.Totals.Balance)
}

func TestGetUpdateDeleteLifecycle(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Alice", "alice@example.com")

	created := createTx(t, r, token, gin.H{
		"title": "Coffee", "amount": 4.50, "type": "Expense", "category": "Food", "date": "2024-01-05",
	})
	id := created["id"].(string)

	w, env := do(t, r, http.MethodGet, "/api/transactions/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodPut, "/api/transactions/"+id, token, gin.H{"title": "Espresso"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Title  string `json:"title"`
		Amount string `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Espresso", updated.Title)
	assert.Equal(t, "4.5", updated.Amount)

	w, env = do(t, r, http.MethodDelete, "/api/transactions/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.True(t, deleted.Success)

	w, env = do(t, r, http.MethodDelete, "/api/transactions/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", env.Kind)
}

func TestCrossUserAccessYieldsNotFound(t *testing.T) {
	r := newTestServer(t)
	tokenA := signup(t, r, "Alice", "alice@example.com")
	tokenB := signup(t, r, "Bob", "bob@example.com")

	created := createTx(t, r, tokenA, gin.H{
		"title": "Private", "amount": 10, "type": "Expense", "category": "Misc", "date": "2024-01-01",
	})
	id := created["id"].(string)

	w, env := do(t, r, http.MethodGet, "/api/transactions/"+id, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", env.Kind)

	w, env = do(t, r, http.MethodPut, "/api/transactions/"+id, tokenB, gin.H{"title": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, r, http.MethodDelete, "/api/transactions/"+id, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Still intact for the owner.
	w, _ = do(t, r, http.MethodGet, "/api/transactions/"+id, tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBreakdownExcludesIncome(t *testing.T) {
	r := newTestServer(t)
	token := signup(t, r, "Alice", "alice@example.com")

	createTx(t, r, token, gin.H{
		"title": "Coffee", "amount": 4.50, "type": "Expense", "category": "Food", "date": "2024-01-05",
	})
	createTx(t, r, token, gin.H{
		"title": "Groceries", "amount": 60, "type": "Expense", "category": "Food", "date": "2024-01-06",
	})
	createTx(t, r, token, gin.H{
		"title": "Salary", "amount": 2000, "type": "Income", "category": "Work", "date": "2024-01-01",
	})

	w, env := do(t, r, http.MethodGet, "/api/transactions/breakdown", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Items []struct {
			Category string `json:"category"`
			Total    string `json:"total"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Food", data.Items[0].Category)
	assert.Equal(t, "64.5", data.Items[0].Total)
}

// -- Health --

func TestHealthEndpoints(t *testing.T) {
	r := newTestServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		w, _ := do(t, r, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code, path)

		var body struct {
			Status string `json:"status"`
			Time   string `json:"time"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.NotEmpty(t, body.Time)
	}
}
