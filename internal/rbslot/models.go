package rbslot

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/devgjhbj-wq/admin-nexus/internal/session"
)

// Time accepts RFC 3339 and "YYYY-MM-DD hh:mm:ss" timestamps; empty and
// null decode to the zero value.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Time) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil || strings.TrimSpace(raw) == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

type LoginResult struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

type Stats struct {
	TotalUsers        int64           `json:"totalUsers"`
	TotalTransactions int64           `json:"totalTransactions"`
	TotalBalance      decimal.Decimal `json:"totalBalance"`
}

type User struct {
	UserID       string          `json:"userId"`
	MobileNumber string          `json:"mobileNumber"`
	Role         string          `json:"role"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    Time            `json:"createdAt"`
}

type LinkedAccount struct {
	UserID       string          `json:"userId"`
	MobileNumber string          `json:"mobileNumber"`
	Role         string          `json:"role"`
	Balance      decimal.Decimal `json:"balance"`
}

type BankAccount struct {
	HolderName    string `json:"holderName"`
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bankName"`
}

type TransactionMeta struct {
	BankAccount *BankAccount `json:"bankAccount,omitempty"`
}

type Transaction struct {
	OrderID   string           `json:"orderId"`
	UserID    string           `json:"userId"`
	Amount    decimal.Decimal  `json:"amount"`
	Type      string           `json:"type"`
	Status    Status           `json:"status"`
	CreatedAt Time             `json:"createdAt"`
	Meta      *TransactionMeta `json:"meta,omitempty"`
}

func (t Transaction) BankAccount() *BankAccount {
	if t.Meta == nil {
		return nil
	}
	return t.Meta.BankAccount
}

type Deposit struct {
	OrderID        string          `json:"order_id"`
	UserID         string          `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         Status          `json:"status"`
	RawStatus      string          `json:"-"`
	UTR            string          `json:"utr"`
	CreatedAt      Time            `json:"created_at"`
	UpdatedAt      Time            `json:"updated_at"`
	GatewayOrderNo string          `json:"gateway_order_no,omitempty"`
}

// UnmarshalJSON keeps the free-text status for display next to the
// normalized one.
func (d *Deposit) UnmarshalJSON(b []byte) error {
	type alias Deposit
	aux := struct {
		*alias
		Status string `json:"status"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d.RawStatus = aux.Status
	d.Status = NormalizeStatus(aux.Status)
	return nil
}

type DeviceLog struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	DeviceID  string `json:"deviceId"`
	IP        string `json:"ip"`
	AdID      string `json:"adId"`
	UA        string `json:"ua"`
	CreatedAt Time   `json:"createdAt"`
}

// Page is one server-paginated slice. Page is 1-based.
type Page[T any] struct {
	Page         int
	TotalPages   int
	TotalRecords int
	Limit        int
	Items        []T
}

// DepositFilter narrows a deposit listing. OrderID wins over UserID.
type DepositFilter struct {
	UserID  string
	OrderID string
}

func (f DepositFilter) Normalize() DepositFilter {
	f.UserID = strings.TrimSpace(f.UserID)
	f.OrderID = strings.TrimSpace(f.OrderID)
	if f.OrderID != "" {
		f.UserID = ""
	}
	return f
}

type DepositStatusResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type pagedEnvelope struct {
	Page         int `json:"page"`
	TotalPages   int `json:"totalPages"`
	TotalRecords int `json:"totalRecords"`
}

type usersEnvelope struct {
	pagedEnvelope
	Users []User `json:"users"`
}

type transactionsEnvelope struct {
	pagedEnvelope
	Transactions []Transaction `json:"transactions"`
}

type devicesEnvelope struct {
	pagedEnvelope
	Devices []DeviceLog `json:"devices"`
}

type depositsEnvelope struct {
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
	Deposits   []Deposit `json:"deposits"`
}

type linkedEnvelope struct {
	UserID         string          `json:"userId"`
	LinkedAccounts []LinkedAccount `json:"linkedAccounts"`
}

func pageOf[T any](env pagedEnvelope, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Page:         env.Page,
		TotalPages:   env.TotalPages,
		TotalRecords: env.TotalRecords,
		Items:        items,
	}
}
