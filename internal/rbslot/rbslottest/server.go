// Package rbslottest is an in-process fake of the RBSlot REST API used by
// tests and by cmd/tools/mockrbslot for local development.
package rbslottest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Account struct {
	Password string
	Token    string
	User     WireUser
}

type WireUser struct {
	UserID       string  `json:"userId"`
	MobileNumber string  `json:"mobileNumber"`
	Role         string  `json:"role"`
	Balance      float64 `json:"balance"`
	CreatedAt    string  `json:"createdAt,omitempty"`
}

type WireBankAccount struct {
	HolderName    string `json:"holderName"`
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bankName"`
}

type WireTransaction struct {
	OrderID   string      `json:"orderId"`
	UserID    string      `json:"userId"`
	Amount    float64     `json:"amount"`
	Type      string      `json:"type"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"createdAt"`
	Meta      *WireTxMeta `json:"meta,omitempty"`
}

type WireTxMeta struct {
	BankAccount *WireBankAccount `json:"bankAccount,omitempty"`
}

type WireDeposit struct {
	OrderID        string  `json:"order_id"`
	UserID         string  `json:"user_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Status         string  `json:"status"`
	UTR            string  `json:"utr"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
	GatewayOrderNo string  `json:"gateway_order_no,omitempty"`
	Note           string  `json:"-"`
}

type WireDevice struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	DeviceID  string `json:"deviceId"`
	IP        string `json:"ip"`
	AdID      string `json:"adId"`
	UA        string `json:"ua"`
	CreatedAt string `json:"createdAt"`
}

// Recorded is one request as the fake saw it.
type Recorded struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	Body          string
}

// Data is the fake's dataset.
type Data struct {
	Accounts     map[string]Account // by mobile number
	Users        []WireUser
	Linked       map[string][]WireUser
	Transactions []WireTransaction
	Deposits     []WireDeposit
	Devices      []WireDevice
	PageSize     int
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	data     Data
	tokens   map[string]bool
	requests []Recorded
	// Before runs ahead of every handler; returning true means the hook
	// wrote the response.
	before func(c *gin.Context) bool
}

// NewServer starts a fake on a loopback listener. Close it when done.
func NewServer(d Data) *Server {
	s := NewUnstarted(d)
	s.Server = httptest.NewServer(s.Handler())
	return s
}

// NewUnstarted builds the fake without a listener; use Handler to mount it.
func NewUnstarted(d Data) *Server {
	if d.PageSize <= 0 {
		d.PageSize = 10
	}
	if d.Accounts == nil {
		d.Accounts = map[string]Account{}
	}
	s := &Server{data: d, tokens: map[string]bool{}}
	for _, a := range d.Accounts {
		s.tokens[a.Token] = true
	}
	return s
}

func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(s.record)

	r.POST("/auth/login", s.login)

	authed := r.Group("/", s.requireToken)
	authed.GET("/admin/stats", s.stats)
	authed.GET("/admin/users", s.listUsers)
	authed.GET("/admin/users/:userId/linked", s.linked)
	authed.GET("/admin/transactions", s.listTransactions)
	authed.PATCH("/transactions/:orderId/status", s.setTransactionStatus)
	authed.GET("/deposit/admin/find", s.findDeposits)
	authed.PATCH("/deposit/admin/:orderId/status", s.setDepositStatus)
	authed.GET("/admin/devices", s.listDevices)
	return r
}

// Before installs a hook that runs ahead of every handler.
func (s *Server) Before(fn func(c *gin.Context) bool) {
	s.mu.Lock()
	s.before = fn
	s.mu.Unlock()
}

// Expire revokes a token so every later call with it gets 401.
func (s *Server) Expire(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// RequestsTo returns the recorded requests whose path equals path.
func (s *Server) RequestsTo(path string) []Recorded {
	var out []Recorded
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) Transaction(orderID string) (WireTransaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.data.Transactions {
		if t.OrderID == orderID {
			return t, true
		}
	}
	return WireTransaction{}, false
}

func (s *Server) Deposit(orderID string) (WireDeposit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.data.Deposits {
		if d.OrderID == orderID {
			return d, true
		}
	}
	return WireDeposit{}, false
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
	}

	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		RawQuery:      c.Request.URL.RawQuery,
		Authorization: c.GetHeader("Authorization"),
		Body:          string(body),
	})
	before := s.before
	s.mu.Unlock()

	if before != nil && before(c) {
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) requireToken(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	s.mu.Lock()
	ok := token != "" && s.tokens[token]
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) login(c *gin.Context) {
	var in struct {
		MobileNumber string `json:"mobileNumber"`
		Password     string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	s.mu.Lock()
	acc, ok := s.data.Accounts[in.MobileNumber]
	if ok && acc.Password == in.Password {
		s.tokens[acc.Token] = true
	}
	s.mu.Unlock()

	if !ok || acc.Password != in.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	u := acc.User
	c.JSON(http.StatusOK, gin.H{
		"token": acc.Token,
		"user": gin.H{
			"userId":       u.UserID,
			"mobileNumber": u.MobileNumber,
			"role":         u.Role,
		},
	})
}

func (s *Server) stats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, u := range s.data.Users {
		total += u.Balance
	}
	c.JSON(http.StatusOK, gin.H{
		"totalUsers":        len(s.data.Users),
		"totalTransactions": len(s.data.Transactions),
		"totalBalance":      total,
	})
}

func pageParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// window slices items for page and reports the page count.
func window[T any](items []T, page, size int) ([]T, int) {
	totalPages := (len(items) + size - 1) / size
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}, totalPages
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[start:end]...), totalPages
}

func (s *Server) listUsers(c *gin.Context) {
	page := pageParam(c)
	s.mu.Lock()
	items, totalPages := window(s.data.Users, page, s.data.PageSize)
	total := len(s.data.Users)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"page": page, "totalPages": totalPages, "totalRecords": total, "users": items})
}

func (s *Server) linked(c *gin.Context) {
	id := c.Param("userId")
	s.mu.Lock()
	items := append([]WireUser{}, s.data.Linked[id]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"userId": id, "linkedAccounts": items})
}

func (s *Server) listTransactions(c *gin.Context) {
	page := pageParam(c)
	s.mu.Lock()
	items, totalPages := window(s.data.Transactions, page, s.data.PageSize)
	total := len(s.data.Transactions)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"page": page, "totalPages": totalPages, "totalRecords": total, "transactions": items})
}

func (s *Server) listDevices(c *gin.Context) {
	page := pageParam(c)
	s.mu.Lock()
	items, totalPages := window(s.data.Devices, page, s.data.PageSize)
	total := len(s.data.Devices)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"page": page, "totalPages": totalPages, "totalRecords": total, "devices": items})
}

func (s *Server) findDeposits(c *gin.Context) {
	orderID := c.Query("order_id")
	userID := c.Query("user_id")
	page := pageParam(c)

	s.mu.Lock()
	var matched []WireDeposit
	for _, d := range s.data.Deposits {
		switch {
		case orderID != "":
			if d.OrderID == orderID {
				matched = append(matched, d)
			}
		case userID != "":
			if d.UserID == userID {
				matched = append(matched, d)
			}
		default:
			matched = append(matched, d)
		}
	}
	size := s.data.PageSize
	s.mu.Unlock()

	items, totalPages := window(matched, page, size)
	c.JSON(http.StatusOK, gin.H{
		"page":       page,
		"limit":      size,
		"total":      len(matched),
		"totalPages": totalPages,
		"deposits":   items,
	})
}

func (s *Server) setTransactionStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || (in.Status != "completed" && in.Status != "failed") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Transactions {
		t := &s.data.Transactions[i]
		if t.OrderID != c.Param("orderId") {
			continue
		}
		if t.Status != "pending" {
			c.JSON(http.StatusConflict, gin.H{"error": "Transaction already processed"})
			return
		}
		t.Status = in.Status
		c.JSON(http.StatusOK, t)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
}

func (s *Server) setDepositStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || (in.Status != "SUCCESS" && in.Status != "FAILED") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Deposits {
		d := &s.data.Deposits[i]
		if d.OrderID != c.Param("orderId") {
			continue
		}
		if !strings.EqualFold(d.Status, "pending") {
			c.JSON(http.StatusConflict, gin.H{"error": "Deposit already processed"})
			return
		}
		d.Status = in.Status
		d.Note = in.Note
		d.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		c.JSON(http.StatusOK, gin.H{"success": true, "order_id": d.OrderID, "status": d.Status})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Deposit not found"})
}

// DecodeBody unmarshals a recorded JSON body.
func DecodeBody(r Recorded, dst any) error {
	return json.Unmarshal([]byte(r.Body), dst)
}
