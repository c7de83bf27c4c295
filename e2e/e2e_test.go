//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"ration-shop-go/internal/chatbot"
	"ration-shop-go/internal/config"
	"ration-shop-go/internal/db"
	admindomain "ration-shop-go/internal/domain/admin"
	familydomain "ration-shop-go/internal/domain/family"
	inventorydomain "ration-shop-go/internal/domain/inventory"
	notificationdomain "ration-shop-go/internal/domain/notification"
	orderdomain "ration-shop-go/internal/domain/order"
	otpdomain "ration-shop-go/internal/domain/otp"
	"ration-shop-go/internal/mail"
	"ration-shop-go/internal/repository/inmemory"
	adminrepo "ration-shop-go/internal/repository/postgres/admin"
	familyrepo "ration-shop-go/internal/repository/postgres/family"
	inventoryrepo "ration-shop-go/internal/repository/postgres/inventory"
	notificationrepo "ration-shop-go/internal/repository/postgres/notification"
	orderrepo "ration-shop-go/internal/repository/postgres/order"
	otprepo "ration-shop-go/internal/repository/postgres/otp"
	"ration-shop-go/internal/transport/httpserver"
	"ration-shop-go/internal/transport/httpserver/handler"
	"ration-shop-go/pkg/logger"

	"gorm.io/gorm"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.NewFromEnv()

	cfg := config.Config{
		DB:   config.DBConfig{DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 2, ConnMaxLifetime: time.Minute},
		SMTP: config.SMTPConfig{Enabled: false},
		Admin: config.AdminConfig{
			JWTSecret: "e2e-secret",
			TokenTTL:  time.Hour,
		},
		Checkout: config.CheckoutConfig{
			OTPTTL:      5 * time.Minute,
			LockTimeout: 5 * time.Second,
		},
		Sweep: config.SweepConfig{
			Interval:           time.Hour,
			ItemMaxAge:         72 * time.Hour,
			NotificationMaxAge: 72 * time.Hour,
			RecentItemWindow:   48 * time.Hour,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	familyRepo := familyrepo.NewPostgres(dbConn)
	inventoryRepo := inventoryrepo.NewPostgres(dbConn)
	orderRepo := orderrepo.NewPostgres(dbConn)
	otpRepo := otprepo.NewPostgres(dbConn)
	notificationRepo := notificationrepo.NewPostgres(dbConn)
	adminRepo := adminrepo.NewPostgres(dbConn)

	sender := mail.NewSender(cfg.SMTP, log)

	families := familydomain.NewServiceWithCache(familyRepo, inmemory.NewInMemoryFamilyCache())
	notifications := notificationdomain.NewService(notificationRepo, log)
	inventory := inventorydomain.NewService(inventoryRepo, families, notifications, cfg.Sweep.ItemMaxAge, log)
	otp := otpdomain.NewService(otpRepo, familyRepo, sender, cfg.Checkout.OTPTTL, log)
	orders := orderdomain.NewService(orderRepo, families, otp, cfg.Checkout.LockTimeout, log)
	admins := admindomain.NewService(adminRepo, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL, log)
	bot := chatbot.New(inventory)

	if err := admins.Register(context.Background(), "admin", "admin12345"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	handlers := handler.New(families, inventory, orders, otp, notifications, admins, bot, log)
	router := httpserver.NewRouter(cfg, handlers, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE order_items, orders, otps, ration_items, notifications, members, families, admins RESTART IDENTITY CASCADE",
	).Error
}

// latestOTPCode reads the checkout code straight from the table; with SMTP
// disabled the code is only ever logged.
func latestOTPCode(t *testing.T, dbConn *gorm.DB, email string) string {
	t.Helper()
	var code string
	err := dbConn.WithContext(context.Background()).
		Table("otps").
		Where("email = ?", email).
		Order("created_at desc").
		Limit(1).
		Pluck("code", &code).Error
	if err != nil {
		t.Fatalf("read otp code: %v", err)
	}
	if code == "" {
		t.Fatal("no otp code issued")
	}
	return code
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
}

type itemResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Area          string  `json:"area"`
	Price         float64 `json:"price"`
	TotalQuantity int     `json:"total_quantity"`
}

type stockResponse struct {
	Items      []availableItemResponse `json:"items"`
	FamilySize int                     `json:"family_size"`
}

type availableItemResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Limit int     `json:"limit"`
}

type orderResponse struct {
	Token         string  `json:"token"`
	TotalPrice    float64 `json:"total_price"`
	PaymentStatus string  `json:"payment_status"`
}

func adminLogin(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodPost, baseURL+"/api/admin/login", "", map[string]string{
		"username": "admin",
		"password": "admin12345",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var login adminLoginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" {
		t.Fatal("expected admin token")
	}
	return login.Token
}

func TestE2EHealthAndAdminAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/admin/areas", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", errResp.Error.Code)
	}

	token := adminLogin(t, client, env.server.URL)
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/admin/areas", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EOrderFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	token := adminLogin(t, client, env.server.URL)

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/families", token, map[string]string{
		"code": "FAM1001",
		"area": "Anna Nagar",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create family: expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/families/FAM1001/members", token, map[string]string{
		"name":   "Lakshmi",
		"aadhar": "123456789012",
		"email":  "lakshmi@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add member: expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/stock", token, map[string]interface{}{
		"name": "Rice", "area": "Anna Nagar", "price": 25.0, "total_quantity": 100,
		"limit_1": 2, "limit_2": 4, "limit_3": 6, "limit_4": 8,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var item itemResponse
	if err := json.Unmarshal(body, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/stock?family_code=FAM1001", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stock: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var stock stockResponse
	if err := json.Unmarshal(body, &stock); err != nil {
		t.Fatalf("decode stock: %v", err)
	}
	if len(stock.Items) != 1 || stock.Items[0].Limit != 2 {
		t.Fatalf("expected one item with single-member limit 2, got %+v", stock)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/checkout/send-otp", "", map[string]string{
		"email": "lakshmi@example.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send otp: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	code := latestOTPCode(t, env.db, "lakshmi@example.com")

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/orders", "", map[string]interface{}{
		"family_code": "FAM1001",
		"email":       "lakshmi@example.com",
		"otp":         code,
		"flow":        "deferred",
		"items":       []map[string]interface{}{{"item_id": item.ID, "quantity": 2}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var placed orderResponse
	if err := json.Unmarshal(body, &placed); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if placed.Token == "" || placed.PaymentStatus != "pending" || placed.TotalPrice != 50.0 {
		t.Fatalf("unexpected order %+v", placed)
	}

	// the code is single use
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/orders", "", map[string]interface{}{
		"family_code": "FAM1001",
		"email":       "lakshmi@example.com",
		"otp":         code,
		"items":       []map[string]interface{}{{"item_id": item.ID, "quantity": 1}},
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("otp replay: expected 401, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/orders/"+placed.Token+"/pay", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/orders/"+placed.Token+"/pay", "", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double pay: expected 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/orders/"+placed.Token, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get order: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var settled orderResponse
	if err := json.Unmarshal(body, &settled); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if settled.PaymentStatus != "paid" {
		t.Fatalf("expected paid, got %q", settled.PaymentStatus)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/orders/"+placed.Token+"/invoice?lang=en&family_code=FAM1001", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("invoice: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if !strings.Contains(string(body), placed.Token) {
		t.Fatalf("invoice must carry the order token:\n%s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/admin/orders/verify?otp="+code+"&area=Anna+Nagar", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify pickup: expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	// stock was decremented by the order and a purchased item drops out of
	// the family's list
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/stock?family_code=FAM1001", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stock after order: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &stock); err != nil {
		t.Fatalf("decode stock: %v", err)
	}
	if len(stock.Items) != 0 {
		t.Fatalf("purchased item must not be offered again, got %+v", stock.Items)
	}
}

func TestE2EInsufficientStock(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	token := adminLogin(t, client, env.server.URL)

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/families", token, map[string]string{
		"code": "FAM2002",
		"area": "T Nagar",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create family: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/families/FAM2002/members", token, map[string]string{
		"name":   "Ravi",
		"aadhar": "223456789012",
		"email":  "ravi@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add member: expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/stock", token, map[string]interface{}{
		"name": "Sugar", "area": "T Nagar", "price": 40.0, "total_quantity": 1,
		"limit_1": 2, "limit_2": 4, "limit_3": 6, "limit_4": 8,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item: expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var item itemResponse
	if err := json.Unmarshal(body, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/checkout/send-otp", "", map[string]string{
		"email": "ravi@example.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send otp: expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	code := latestOTPCode(t, env.db, "ravi@example.com")

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/orders", "", map[string]interface{}{
		"family_code": "FAM2002",
		"email":       "ravi@example.com",
		"otp":         code,
		"items":       []map[string]interface{}{{"item_id": item.ID, "quantity": 2}},
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for oversell, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != "insufficient_stock" {
		t.Fatalf("expected insufficient_stock, got %q", errResp.Error.Code)
	}
}
