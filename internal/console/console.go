// Package console ties one browser to its own session store, API client and
// list/mutation controllers.
package console

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devgjhbj-wq/admin-nexus/internal/listctl"
	"github.com/devgjhbj-wq/admin-nexus/internal/modules/decisions"
	"github.com/devgjhbj-wq/admin-nexus/internal/mutation"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/internal/session"
	"github.com/devgjhbj-wq/admin-nexus/internal/storage"
)

type (
	UsersList        = listctl.Controller[rbslot.User, listctl.NoFilter]
	TransactionsList = listctl.Controller[rbslot.Transaction, listctl.NoFilter]
	DepositsList     = listctl.Controller[rbslot.Deposit, rbslot.DepositFilter]
	DevicesList      = listctl.Controller[rbslot.DeviceLog, listctl.NoFilter]

	TransactionMutation = mutation.Controller[rbslot.Transaction]
	DepositMutation     = mutation.Controller[rbslot.DepositStatusResult]
)

// Deps are shared by every console of a process.
type Deps struct {
	Storage      storage.KV
	APIBaseURL   string
	Timeout      time.Duration
	Logger       *slog.Logger
	Decisions    decisions.Log
	Interceptors []rbslot.Interceptor
	ListMaxAge   time.Duration
}

type Console struct {
	ID      string
	Session *session.Store
	API     *rbslot.Client

	TransactionStatus *TransactionMutation
	DepositStatus     *DepositMutation

	deps Deps
	log  *slog.Logger

	loginPending atomic.Bool
	redirects    atomic.Int64
	lastSeen     atomic.Int64

	mu           sync.Mutex
	ctx          context.Context
	cancel       context.CancelFunc
	users        *UsersList
	transactions *TransactionsList
	deposits     *DepositsList
	devices      *DevicesList
}

// New restores the console's session from durable storage. Lists are
// created on first use so a logged-out console never fetches anything.
func New(ctx context.Context, id string, deps Deps) *Console {
	l := deps.Logger
	if l == nil {
		l = slog.Default()
	}
	l = l.With(slog.String("console_id", id))
	if deps.Decisions == nil {
		deps.Decisions = decisions.NewMemoryLog(0)
	}

	c := &Console{ID: id, deps: deps, log: l}
	c.Session = session.Load(ctx, storage.WithNamespace(deps.Storage, "console/"+id), l)

	interceptors := append([]rbslot.Interceptor{rbslot.Logging(l)}, deps.Interceptors...)
	c.API = rbslot.New(rbslot.Options{
		BaseURL:      deps.APIBaseURL,
		Timeout:      deps.Timeout,
		Session:      c.Session,
		Navigator:    rbslot.NavigatorFunc(c.toLogin),
		Logger:       l,
		Interceptors: interceptors,
	})
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.Touch(time.Now())

	c.TransactionStatus = mutation.New(c.setTransactionStatus, mutation.Options[rbslot.Transaction]{
		Name:        "transaction_status",
		Invalidates: []mutation.Invalidator{mutation.InvalidatorFunc(c.invalidateTransactions)},
		OnSettled: func(ctx context.Context, t mutation.Target, res rbslot.Transaction, err error) {
			c.record(ctx, "transaction", t, string(transactionDecision(t.Action)), res, err)
		},
		Logger: l,
	})
	c.DepositStatus = mutation.New(c.setDepositStatus, mutation.Options[rbslot.DepositStatusResult]{
		Name:        "deposit_status",
		Invalidates: []mutation.Invalidator{mutation.InvalidatorFunc(c.invalidateDeposits)},
		OnSettled: func(ctx context.Context, t mutation.Target, res rbslot.DepositStatusResult, err error) {
			c.record(ctx, "deposit", t, string(depositDecision(t.Action)), res, err)
		},
		Logger: l,
	})
	return c
}

func (c *Console) toLogin() {
	c.redirects.Add(1)
	c.loginPending.Store(true)
	c.Reset()
}

// TakeLoginRedirect reports, once, that a 401 sent this console to login.
func (c *Console) TakeLoginRedirect() bool {
	return c.loginPending.Swap(false)
}

// Redirects counts login redirects since the console was created.
func (c *Console) Redirects() int64 { return c.redirects.Load() }

func (c *Console) Touch(now time.Time) { c.lastSeen.Store(now.UnixNano()) }

func (c *Console) LastSeen() time.Time { return time.Unix(0, c.lastSeen.Load()) }

// Reset drops every list and aborts their in-flight fetches. Used on
// logout, on login as someone else and on session expiry.
func (c *Console) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel()
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.users, c.transactions, c.deposits, c.devices = nil, nil, nil, nil
}

// Close releases the console's background work.
func (c *Console) Close() {
	c.mu.Lock()
	c.cancel()
	c.mu.Unlock()
}

func listOptions[T any](c *Console, name string) listctl.Options[T] {
	return listctl.Options[T]{Name: name, MaxAge: c.deps.ListMaxAge, Logger: c.log}
}

// Users mounts the users list on q.
func (c *Console) Users(q listctl.Query[listctl.NoFilter]) *UsersList {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.users == nil {
		c.users = listctl.New(c.ctx, func(ctx context.Context, q listctl.Query[listctl.NoFilter]) (rbslot.Page[rbslot.User], error) {
			return c.API.ListUsers(ctx, q.Page)
		}, q, listOptions[rbslot.User](c, "users"))
		return c.users
	}
	c.users.Load(q)
	return c.users
}

func (c *Console) Transactions(q listctl.Query[listctl.NoFilter]) *TransactionsList {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transactions == nil {
		c.transactions = listctl.New(c.ctx, func(ctx context.Context, q listctl.Query[listctl.NoFilter]) (rbslot.Page[rbslot.Transaction], error) {
			return c.API.ListTransactions(ctx, q.Page)
		}, q, listOptions[rbslot.Transaction](c, "transactions"))
		return c.transactions
	}
	c.transactions.Load(q)
	return c.transactions
}

func (c *Console) Deposits(q listctl.Query[rbslot.DepositFilter]) *DepositsList {
	q.Filters = q.Filters.Normalize()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deposits == nil {
		c.deposits = listctl.New(c.ctx, func(ctx context.Context, q listctl.Query[rbslot.DepositFilter]) (rbslot.Page[rbslot.Deposit], error) {
			return c.API.ListDeposits(ctx, q.Page, q.Filters)
		}, q, listOptions[rbslot.Deposit](c, "deposits"))
		return c.deposits
	}
	c.deposits.Load(q)
	return c.deposits
}

func (c *Console) Devices(q listctl.Query[listctl.NoFilter]) *DevicesList {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.devices == nil {
		c.devices = listctl.New(c.ctx, func(ctx context.Context, q listctl.Query[listctl.NoFilter]) (rbslot.Page[rbslot.DeviceLog], error) {
			return c.API.ListDevices(ctx, q.Page)
		}, q, listOptions[rbslot.DeviceLog](c, "devices"))
		return c.devices
	}
	c.devices.Load(q)
	return c.devices
}

func (c *Console) invalidateTransactions() {
	c.mu.Lock()
	l := c.transactions
	c.mu.Unlock()
	if l != nil {
		l.Invalidate()
	}
}

func (c *Console) invalidateDeposits() {
	c.mu.Lock()
	l := c.deposits
	c.mu.Unlock()
	if l != nil {
		l.Invalidate()
	}
}

// LoadedTransaction finds id on the transactions page already loaded,
// without fetching.
func (c *Console) LoadedTransaction(id string) (rbslot.Transaction, bool) {
	c.mu.Lock()
	l := c.transactions
	c.mu.Unlock()
	if l == nil {
		return rbslot.Transaction{}, false
	}
	for _, t := range l.State().Items {
		if t.OrderID == id {
			return t, true
		}
	}
	return rbslot.Transaction{}, false
}

func (c *Console) LoadedDeposit(id string) (rbslot.Deposit, bool) {
	c.mu.Lock()
	l := c.deposits
	c.mu.Unlock()
	if l == nil {
		return rbslot.Deposit{}, false
	}
	for _, d := range l.State().Items {
		if d.OrderID == id {
			return d, true
		}
	}
	return rbslot.Deposit{}, false
}

func transactionDecision(a mutation.Action) rbslot.TransactionDecision {
	if a == mutation.Approve {
		return rbslot.TransactionCompleted
	}
	return rbslot.TransactionFailed
}

func depositDecision(a mutation.Action) rbslot.DepositDecision {
	if a == mutation.Approve {
		return rbslot.DepositSuccess
	}
	return rbslot.DepositFailed
}

// Default operator notes for deposit decisions made without one.
const (
	NoteVerified = "Payment verified by admin"
	NoteRejected = "Payment rejected by admin"
)

// DepositTarget fills in the default operator note when none was given.
func DepositTarget(action mutation.Action, orderID, note string) mutation.Target {
	if note == "" {
		note = NoteRejected
		if action == mutation.Approve {
			note = NoteVerified
		}
	}
	return mutation.Target{Action: action, ID: orderID, Note: note}
}

func (c *Console) setTransactionStatus(ctx context.Context, t mutation.Target) (rbslot.Transaction, error) {
	return c.API.SetTransactionStatus(ctx, t.ID, transactionDecision(t.Action))
}

func (c *Console) setDepositStatus(ctx context.Context, t mutation.Target) (rbslot.DepositStatusResult, error) {
	t = DepositTarget(t.Action, t.ID, t.Note)
	return c.API.SetDepositStatus(ctx, t.ID, depositDecision(t.Action), t.Note)
}

func (c *Console) record(ctx context.Context, resource string, t mutation.Target, wire string, res any, err error) {
	actor := ""
	if u, ok := c.Session.User(); ok {
		actor = u.UserID
	}
	if err != nil {
		res = nil
	}
	_, rerr := c.deps.Decisions.Record(context.WithoutCancel(ctx), decisions.RecordInput{
		ConsoleID:   c.ID,
		ActorUserID: actor,
		Resource:    resource,
		OrderID:     t.ID,
		Action:      string(t.Action),
		WireStatus:  wire,
		Note:        t.Note,
		Err:         err,
		Response:    res,
	})
	if rerr != nil {
		c.log.Warn("decision_record_failed", slog.String("order_id", t.ID), slog.Any("err", rerr))
	}
}
