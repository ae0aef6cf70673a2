package rbslot_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot/rbslottest"
	"github.com/devgjhbj-wq/admin-nexus/internal/session"
	"github.com/devgjhbj-wq/admin-nexus/internal/storage"
)

type redirects struct{ n atomic.Int32 }

func (r *redirects) ToLogin() { r.n.Add(1) }

func newClient(t *testing.T, srv *rbslottest.Server) (*rbslot.Client, *session.Store, *redirects) {
	t.Helper()
	store := session.Load(context.Background(), storage.NewMemory(), nil)
	nav := &redirects{}
	c := rbslot.New(rbslot.Options{
		BaseURL:   srv.URL,
		Session:   store,
		Navigator: nav,
	})
	return c, store, nav
}

func TestLoginListAndExpire(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(25))
	defer srv.Close()
	srv.Before(func(c *gin.Context) bool {
		if c.Request.URL.Path == "/admin/users" && c.Query("page") == "2" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			return true
		}
		return false
	})

	client, store, nav := newClient(t, srv)
	ctx := context.Background()

	res, err := client.Login(ctx, "9999999999", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "abc" || res.User.UserID != "u1" || res.User.Role != "admin" {
		t.Fatalf("unexpected login result: %+v", res)
	}
	if err := store.Set(ctx, res.Token, res.User); err != nil {
		t.Fatalf("set session: %v", err)
	}

	page, err := client.ListUsers(ctx, 1)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if page.Page != 1 || page.TotalPages != 3 || page.TotalRecords != 25 || len(page.Items) != 10 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if !page.Items[1].Balance.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected balance 2000, got %s", page.Items[1].Balance)
	}
	reqs := srv.RequestsTo("/admin/users")
	if len(reqs) != 1 || reqs[0].Authorization != "Bearer abc" {
		t.Fatalf("expected bearer header, got %+v", reqs)
	}

	_, err = client.ListUsers(ctx, 2)
	if !errors.Is(err, rbslot.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	var re *rbslot.RequestError
	if !errors.As(err, &re) || re.Message != "Token expired" {
		t.Fatalf("expected server message on RequestError, got %v", err)
	}
	if store.Token() != "" {
		t.Fatalf("expected token cleared after 401")
	}
	if nav.n.Load() != 1 {
		t.Fatalf("expected one login redirect, got %d", nav.n.Load())
	}
}

func TestNoTokenMeansNoAuthorizationHeader(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(3))
	defer srv.Close()
	client, _, nav := newClient(t, srv)

	_, err := client.Stats(context.Background())
	if !errors.Is(err, rbslot.ErrSessionExpired) {
		t.Fatalf("expected 401, got %v", err)
	}
	reqs := srv.RequestsTo("/admin/stats")
	if len(reqs) != 1 || reqs[0].Authorization != "" {
		t.Fatalf("expected no Authorization header, got %+v", reqs)
	}
	if nav.n.Load() != 1 {
		t.Fatalf("a 401 without a session must still go to login, got %d redirects", nav.n.Load())
	}
}

func TestLoginRejected(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(1))
	defer srv.Close()
	client, _, nav := newClient(t, srv)

	_, err := client.Login(context.Background(), "9999999999", "wrong")
	var ae *rbslot.AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %T %v", err, err)
	}
	if ae.Message != "Invalid credentials" {
		t.Fatalf("expected server message, got %q", ae.Message)
	}
	if nav.n.Load() != 0 {
		t.Fatalf("rejected login must not trigger the login redirect")
	}
}

func TestLoginFallbackMessage(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(1))
	defer srv.Close()
	srv.Before(func(c *gin.Context) bool {
		c.Status(http.StatusBadGateway)
		return true
	})
	client, _, _ := newClient(t, srv)

	_, err := client.Login(context.Background(), "9999999999", "secret1")
	if rbslot.Message(err) != "Login failed" {
		t.Fatalf("expected fallback message, got %q", rbslot.Message(err))
	}
}

func TestRequestErrorFallback(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(1))
	defer srv.Close()
	srv.Before(func(c *gin.Context) bool {
		if c.Request.URL.Path == "/admin/devices" {
			c.String(http.StatusInternalServerError, "boom")
			return true
		}
		return false
	})
	client, store, nav := newClient(t, srv)
	_ = store.Set(context.Background(), "abc", session.User{UserID: "u1", Role: "admin"})

	_, err := client.ListDevices(context.Background(), 1)
	var re *rbslot.RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if re.Status != http.StatusInternalServerError || re.Message != "Failed to fetch devices" {
		t.Fatalf("unexpected error: %+v", re)
	}
	if errors.Is(err, rbslot.ErrSessionExpired) {
		t.Fatalf("500 must not match ErrSessionExpired")
	}
	if store.Token() != "abc" || nav.n.Load() != 0 {
		t.Fatalf("non-401 failures must leave the session alone")
	}
}

func TestTransportError(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(1))
	url := srv.URL
	srv.Close()

	store := session.Load(context.Background(), storage.NewMemory(), nil)
	client := rbslot.New(rbslot.Options{BaseURL: url, Session: store})

	_, err := client.ListTransactions(context.Background(), 1)
	if !rbslot.IsTransport(err) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
}

func TestDepositFilterPrecedence(t *testing.T) {
	cases := []struct {
		name   string
		page   int
		filter rbslot.DepositFilter
		want   string
	}{
		{"none", 2, rbslot.DepositFilter{}, "/deposit/admin/find?page=2"},
		{"user", 3, rbslot.DepositFilter{UserID: "u7"}, "/deposit/admin/find?page=3&user_id=u7"},
		{"order", 3, rbslot.DepositFilter{OrderID: "DP0001"}, "/deposit/admin/find?order_id=DP0001"},
		{"both", 3, rbslot.DepositFilter{UserID: "u7", OrderID: "DP0001"}, "/deposit/admin/find?order_id=DP0001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rbslot.DepositsPath(tc.page, tc.filter); got != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}

	srv := rbslottest.NewServer(rbslottest.Demo(12))
	defer srv.Close()
	client, store, _ := newClient(t, srv)
	_ = store.Set(context.Background(), "abc", session.User{UserID: "u1", Role: "admin"})

	page, err := client.ListDeposits(context.Background(), 1, rbslot.DepositFilter{UserID: "u2", OrderID: "DP0005"})
	if err != nil {
		t.Fatalf("list deposits: %v", err)
	}
	reqs := srv.RequestsTo("/deposit/admin/find")
	if len(reqs) != 1 || reqs[0].RawQuery != "order_id=DP0005" {
		t.Fatalf("expected order-id-only lookup, got %+v", reqs)
	}
	if len(page.Items) != 1 || page.Items[0].OrderID != "DP0005" {
		t.Fatalf("unexpected deposits: %+v", page.Items)
	}
}

func TestDepositStatusNormalized(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(4))
	defer srv.Close()
	client, store, _ := newClient(t, srv)
	_ = store.Set(context.Background(), "abc", session.User{UserID: "u1", Role: "admin"})

	page, err := client.ListDeposits(context.Background(), 1, rbslot.DepositFilter{})
	if err != nil {
		t.Fatalf("list deposits: %v", err)
	}
	want := map[string]rbslot.Status{
		"DP0001": rbslot.StatusCompleted, // SUCCESS
		"DP0002": rbslot.StatusFailed,    // failed
		"DP0003": rbslot.StatusPending,   // processing
		"DP0004": rbslot.StatusPending,   // PENDING
	}
	for _, d := range page.Items {
		if d.Status != want[d.OrderID] {
			t.Fatalf("%s: raw %q normalized to %q", d.OrderID, d.RawStatus, d.Status)
		}
	}
	if page.Limit != 10 || page.TotalRecords != 4 {
		t.Fatalf("unexpected deposit paging: %+v", page)
	}
}

func TestSetStatuses(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(6))
	defer srv.Close()
	client, store, _ := newClient(t, srv)
	ctx := context.Background()
	_ = store.Set(ctx, "abc", session.User{UserID: "u1", Role: "admin"})

	tx, err := client.SetTransactionStatus(ctx, "TX0003", rbslot.TransactionCompleted)
	if err != nil {
		t.Fatalf("set transaction status: %v", err)
	}
	if tx.Status != rbslot.StatusCompleted {
		t.Fatalf("expected completed, got %s", tx.Status)
	}
	reqs := srv.RequestsTo("/transactions/TX0003/status")
	if len(reqs) != 1 || reqs[0].Method != http.MethodPatch || reqs[0].Body != `{"status":"completed"}` {
		t.Fatalf("unexpected request: %+v", reqs)
	}

	_, err = client.SetTransactionStatus(ctx, "TX0003", rbslot.TransactionFailed)
	if rbslot.Message(err) != "Transaction already processed" {
		t.Fatalf("expected conflict message, got %v", err)
	}

	res, err := client.SetDepositStatus(ctx, "DP0004", rbslot.DepositSuccess, "Payment verified by admin")
	if err != nil {
		t.Fatalf("set deposit status: %v", err)
	}
	if !res.Success || res.OrderID != "DP0004" || res.Status != "SUCCESS" {
		t.Fatalf("unexpected result: %+v", res)
	}
	var body map[string]string
	_ = rbslottest.DecodeBody(srv.RequestsTo("/deposit/admin/DP0004/status")[0], &body)
	if body["status"] != "SUCCESS" || body["note"] != "Payment verified by admin" {
		t.Fatalf("unexpected body: %+v", body)
	}

	if _, err := client.SetDepositStatus(ctx, "DP0004", "MAYBE", ""); err == nil {
		t.Fatalf("expected invalid status to be refused locally")
	}
}

func TestConcurrent401sRedirectOnce(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(3))
	defer srv.Close()
	client, store, nav := newClient(t, srv)
	ctx := context.Background()
	_ = store.Set(ctx, "abc", session.User{UserID: "u1", Role: "admin"})
	srv.Expire("abc")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = client.ListUsers(ctx, 1)
		}()
	}
	wg.Wait()

	if store.Token() != "" {
		t.Fatalf("expected session cleared")
	}
	if got := nav.n.Load(); got != 1 {
		t.Fatalf("expected exactly one redirect, got %d", got)
	}
}

func TestLinkedAccounts(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(3))
	defer srv.Close()
	client, store, _ := newClient(t, srv)
	_ = store.Set(context.Background(), "abc", session.User{UserID: "u1", Role: "admin"})

	linked, err := client.ListLinkedAccounts(context.Background(), "u2")
	if err != nil {
		t.Fatalf("linked: %v", err)
	}
	if len(linked) != 1 || linked[0].UserID != "u3" {
		t.Fatalf("unexpected linked accounts: %+v", linked)
	}

	none, err := client.ListLinkedAccounts(context.Background(), "u1")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %+v (%v)", none, err)
	}
}

func TestMetricsInterceptor(t *testing.T) {
	srv := rbslottest.NewServer(rbslottest.Demo(3))
	defer srv.Close()
	client, store, _ := newClient(t, srv)
	m := rbslot.NewMetrics(prometheus.NewRegistry())
	client.Use(m.Interceptor())

	ctx := context.Background()
	_ = store.Set(ctx, "abc", session.User{UserID: "u1", Role: "admin"})
	_, _ = client.ListUsers(ctx, 1)
	_, _ = client.ListUsers(ctx, 1)
	srv.Expire("abc")
	_, _ = client.ListUsers(ctx, 1)

	if got := testutil.ToFloat64(m.Calls.WithLabelValues("list_users", "2xx")); got != 2 {
		t.Fatalf("expected 2 successful calls, got %v", got)
	}
	if got := testutil.ToFloat64(m.Calls.WithLabelValues("list_users", "4xx")); got != 1 {
		t.Fatalf("expected 1 failed call, got %v", got)
	}
}
