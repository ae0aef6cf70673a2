package rbslot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Login(ctx context.Context, mobileNumber, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, request{
		op:       "login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     map[string]string{"mobileNumber": mobileNumber, "password": password},
		login:    true,
		fallback: "Login failed",
	}, &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	err := c.do(ctx, request{
		op:       "stats",
		method:   http.MethodGet,
		path:     "/admin/stats",
		fallback: "Failed to fetch stats",
	}, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context, page int) (Page[User], error) {
	var env usersEnvelope
	err := c.do(ctx, request{
		op:       "list_users",
		method:   http.MethodGet,
		path:     "/admin/users?page=" + strconv.Itoa(page),
		fallback: "Failed to fetch users",
	}, &env)
	if err != nil {
		return Page[User]{}, err
	}
	return pageOf(env.pagedEnvelope, env.Users), nil
}

func (c *Client) ListLinkedAccounts(ctx context.Context, userID string) ([]LinkedAccount, error) {
	var env linkedEnvelope
	err := c.do(ctx, request{
		op:       "list_linked_accounts",
		method:   http.MethodGet,
		path:     "/admin/users/" + url.PathEscape(userID) + "/linked",
		fallback: "Failed to fetch linked accounts",
	}, &env)
	if err != nil {
		return nil, err
	}
	if env.LinkedAccounts == nil {
		return []LinkedAccount{}, nil
	}
	return env.LinkedAccounts, nil
}

func (c *Client) ListTransactions(ctx context.Context, page int) (Page[Transaction], error) {
	var env transactionsEnvelope
	err := c.do(ctx, request{
		op:       "list_transactions",
		method:   http.MethodGet,
		path:     "/admin/transactions?page=" + strconv.Itoa(page),
		fallback: "Failed to fetch transactions",
	}, &env)
	if err != nil {
		return Page[Transaction]{}, err
	}
	return pageOf(env.pagedEnvelope, env.Transactions), nil
}

func (c *Client) ListDevices(ctx context.Context, page int) (Page[DeviceLog], error) {
	var env devicesEnvelope
	err := c.do(ctx, request{
		op:       "list_devices",
		method:   http.MethodGet,
		path:     "/admin/devices?page=" + strconv.Itoa(page),
		fallback: "Failed to fetch devices",
	}, &env)
	if err != nil {
		return Page[DeviceLog]{}, err
	}
	return pageOf(env.pagedEnvelope, env.Devices), nil
}

// DepositsPath builds the lookup path. An order id is a single-record lookup
// and suppresses both the user id and the page parameter.
func DepositsPath(page int, f DepositFilter) string {
	f = f.Normalize()
	q := url.Values{}
	switch {
	case f.OrderID != "":
		q.Set("order_id", f.OrderID)
	case f.UserID != "":
		q.Set("user_id", f.UserID)
		q.Set("page", strconv.Itoa(page))
	default:
		q.Set("page", strconv.Itoa(page))
	}
	return "/deposit/admin/find?" + q.Encode()
}

func (c *Client) ListDeposits(ctx context.Context, page int, f DepositFilter) (Page[Deposit], error) {
	var env depositsEnvelope
	err := c.do(ctx, request{
		op:       "list_deposits",
		method:   http.MethodGet,
		path:     DepositsPath(page, f),
		fallback: "Failed to fetch deposits",
	}, &env)
	if err != nil {
		return Page[Deposit]{}, err
	}
	items := env.Deposits
	if items == nil {
		items = []Deposit{}
	}
	return Page[Deposit]{
		Page:         env.Page,
		TotalPages:   env.TotalPages,
		TotalRecords: env.Total,
		Limit:        env.Limit,
		Items:        items,
	}, nil
}

func (c *Client) SetTransactionStatus(ctx context.Context, orderID string, status TransactionDecision) (Transaction, error) {
	if status != TransactionCompleted && status != TransactionFailed {
		return Transaction{}, fmt.Errorf("rbslot: invalid transaction status %q", status)
	}
	var out Transaction
	err := c.do(ctx, request{
		op:       "set_transaction_status",
		method:   http.MethodPatch,
		path:     "/transactions/" + url.PathEscape(orderID) + "/status",
		body:     map[string]string{"status": string(status)},
		fallback: "Failed to update transaction status",
	}, &out)
	return out, err
}

func (c *Client) SetDepositStatus(ctx context.Context, orderID string, status DepositDecision, note string) (DepositStatusResult, error) {
	if status != DepositSuccess && status != DepositFailed {
		return DepositStatusResult{}, fmt.Errorf("rbslot: invalid deposit status %q", status)
	}
	var out DepositStatusResult
	err := c.do(ctx, request{
		op:       "set_deposit_status",
		method:   http.MethodPatch,
		path:     "/deposit/admin/" + url.PathEscape(orderID) + "/status",
		body:     map[string]string{"status": string(status), "note": note},
		fallback: "Failed to update deposit status",
	}, &out)
	return out, err
}
