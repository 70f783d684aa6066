package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"moneytrack/internal/cache"
	"moneytrack/internal/core"
	"moneytrack/internal/export"
	"moneytrack/internal/services"
	"moneytrack/internal/storage"
)

type testEnv struct {
	srv  *Server
	repo *storage.SQLiteRepository
	user core.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	calendar := core.Calendar{BiweeklyWeeks: 2}
	svc := Services{
		Store:         repo,
		Users:         services.NewUserService(repo),
		Accounts:      services.NewAccountService(repo),
		Budgets:       services.NewBudgetService(repo, calendar),
		Subscriptions: services.NewSubscriptionService(repo),
		Transactions:  services.NewTransactionService(repo),
		Liabilities:   services.NewLiabilityService(repo),
		Notifications: services.NewNotificationService(repo),
		Dashboard:     services.NewDashboardService(repo, cache.NewLRUCache[core.Dashboard](10, time.Minute)),
	}
	srv, err := NewServer(":0", svc, Options{RateLimitPerMinute: 1000})
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	user, err := svc.Users.Register(context.Background(), core.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "correct horse",
		Currency:  "USD",
	})
	require.NoError(t, err)
	return &testEnv{srv: srv, repo: repo, user: user}
}

func (e *testEnv) do(t *testing.T, method, path, form string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(HeaderUserID, strconv.FormatInt(e.user.ID, 10))
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) createAccount(t *testing.T, name, balance string) core.Account {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/accounts", "name="+name+"&type=Checking&starting_balance="+balance)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	list, err := e.repo.ListAccounts(context.Background(), e.user.ID)
	require.NoError(t, err)
	for _, a := range list {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("account %q not stored", name)
	return core.Account{}
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		env.srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	}
}

func TestIndexAndStatic(t *testing.T) {
	env := newTestEnv(t)
	rr := httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

	rr = httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequiresUser(t *testing.T) {
	env := newTestEnv(t)
	for _, header := range []string{"", "abc", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/ui/dashboard", nil)
		if header != "" {
			req.Header.Set(HeaderUserID, header)
		}
		rr := httptest.NewRecorder()
		env.srv.Handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
	}
}

func TestCreateTransaction(t *testing.T) {
	env := newTestEnv(t)
	acct := env.createAccount(t, "Checking", "100")

	rr := env.do(t, http.MethodPost, "/transactions",
		"type=Expense&amount=12.50&description=lunch&date=2024-03-01&account_from_id="+strconv.FormatInt(acct.ID, 10))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var triggers map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("HX-Trigger")), &triggers))
	assert.Contains(t, triggers, EventLedgerChanged)
	assert.Contains(t, triggers, EventFormReset)
	assert.Contains(t, triggers, EventShowMessage)

	got, err := env.repo.GetAccount(context.Background(), env.user.ID, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8750), got.CurrentBalance.Cents)
}

func TestCreateTransactionRejectsInput(t *testing.T) {
	env := newTestEnv(t)
	acct := env.createAccount(t, "Checking", "100")
	from := strconv.FormatInt(acct.ID, 10)

	tests := []struct {
		name string
		form string
		want int
	}{
		{"bad amount", "type=Expense&amount=abc&date=2024-03-01&account_from_id=" + from, http.StatusUnprocessableEntity},
		{"bad type", "type=Gift&amount=5&date=2024-03-01&account_from_id=" + from, http.StatusUnprocessableEntity},
		{"bad date", "type=Expense&amount=5&date=03/01/2024&account_from_id=" + from, http.StatusUnprocessableEntity},
		{"unknown account", "type=Expense&amount=5&date=2024-03-01&account_from_id=9999", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/transactions", tt.form)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Header().Get("HX-Trigger"), `"category":"error"`)
		})
	}

	got, err := env.repo.GetAccount(context.Background(), env.user.ID, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), got.CurrentBalance.Cents, "rejected input must not move money")
}

func TestDeleteMissingTransaction(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodDelete, "/transactions/4242", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodDelete, "/transactions/zero", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestDashboardReflectsMutations(t *testing.T) {
	env := newTestEnv(t)
	acct := env.createAccount(t, "Checking", "100")

	rr := env.do(t, http.MethodGet, "/ui/dashboard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "100.00")

	rr = env.do(t, http.MethodPost, "/transactions",
		"type=Income&amount=50&date=2024-03-01&account_to_id="+strconv.FormatInt(acct.ID, 10))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodGet, "/ui/dashboard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "150.00", "cached dashboard must be dropped after a write")
}

func TestLoanPaymentFlow(t *testing.T) {
	env := newTestEnv(t)
	acct := env.createAccount(t, "Checking", "1000")

	rr := env.do(t, http.MethodPost, "/loans",
		"counterparty_name=Bank&amount=500&interest_rate=4.5&start_date=2024-01-01&type=Taken")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Header().Get("HX-Trigger"), EventLiabilitiesChanged)

	loans, err := env.srv.svc.Liabilities.ListLoans(context.Background(), env.user.ID)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	loanPath := "/loans/" + strconv.FormatInt(loans[0].ID, 10)

	rr = env.do(t, http.MethodGet, "/ui/liabilities", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Bank")
	assert.Contains(t, rr.Body.String(), loanPath+"/payments")

	rr = env.do(t, http.MethodPost, loanPath+"/payments",
		"account_id="+strconv.FormatInt(acct.ID, 10)+"&amount=100&date=2024-02-01")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodGet, loanPath+"/payments", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var payments []struct {
		ID     int64  `json:"id"`
		Amount string `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payments))
	require.Len(t, payments, 1)
	assert.Equal(t, "100.00", payments[0].Amount)

	rr = env.do(t, http.MethodDelete, loanPath, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, "loan with payments cannot be deleted")

	rr = env.do(t, http.MethodDelete, "/payments/"+strconv.FormatInt(payments[0].ID, 10), "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodDelete, loanPath, "")
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestExportTransactions(t *testing.T) {
	env := newTestEnv(t)
	acct := env.createAccount(t, "Checking", "100")
	rr := env.do(t, http.MethodPost, "/transactions",
		"type=Expense&amount=20&description=books&date=2024-03-01&account_from_id="+strconv.FormatInt(acct.ID, 10))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodGet, "/export/transactions.xlsx?from=2024-01-01", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, export.ContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")

	book, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "books", rows[1][2])

	rr = env.do(t, http.MethodGet, "/export/transactions.xlsx?from=2024-05-01&to=2024-01-01", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"first_name":"Grace","last_name":"Hopper","email":"grace@example.com","password":"cobol-rules"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), "/users/"))

	rr = httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"first_name":"Ada","last_name":"Again","email":"ada@example.com","password":"another one"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, "duplicate email")
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPatch, "/transactions", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestPanelsRender(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "Checking", "100")
	for _, panel := range []string{"dashboard", "transactions", "accounts", "budgets", "subscriptions", "liabilities", "notifications"} {
		rr := env.do(t, http.MethodGet, "/ui/"+panel, "")
		assert.Equal(t, http.StatusOK, rr.Code, "%s: %s", panel, rr.Body.String())
		assert.Contains(t, rr.Header().Get("Content-Type"), "text/html", panel)
	}
}

func TestEditKeepsSubscriptionLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acct := env.createAccount(t, "Checking", "200")
	accountID := strconv.FormatInt(acct.ID, 10)

	rr := env.do(t, http.MethodPost, "/subscriptions",
		"name=Gym&amount=50&frequency=Monthly&auto_add_transaction=on&next_payment_date=2024-03-01&account_id="+accountID)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	subs, err := env.repo.ListSubscriptions(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	_, err = services.NewRecurringProcessor(env.repo, core.DefaultCalendar()).
		PostDueSubscriptions(ctx, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	txs, err := env.repo.ListTransactions(ctx, env.user.ID, core.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, subs[0].ID, txs[0].SubscriptionID)

	path := "/transactions/" + strconv.FormatInt(txs[0].ID, 10)
	for _, extra := range []string{"", "&subscription_id=" + strconv.FormatInt(subs[0].ID, 10)} {
		rr = env.do(t, http.MethodPut, path,
			"type=Expense&amount=55&description=Gym&date=2024-03-01&account_from_id="+accountID+extra)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		got, err := env.repo.GetTransaction(ctx, env.user.ID, txs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, subs[0].ID, got.SubscriptionID, "form %q", extra)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPut, "/profile/password",
		"current_password=correct+horse&new_password=battery+staple&confirm_password=battery+stable")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = env.do(t, http.MethodPut, "/profile/password",
		"current_password=wrong+horse&new_password=battery+staple&confirm_password=battery+staple")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = env.do(t, http.MethodPut, "/profile/password",
		"current_password=correct+horse&new_password=battery+staple&confirm_password=battery+staple")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	_, err := services.NewUserService(env.repo).Authenticate(context.Background(), "ada@example.com", "battery staple")
	assert.NoError(t, err)
}
