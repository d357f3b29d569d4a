package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ita-disc-inventory/backend/models"
	"github.com/ita-disc-inventory/backend/router"
	"github.com/ita-disc-inventory/backend/utils"
)

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []capturedMail
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *captureMailer) bySubject(subject string) []capturedMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []capturedMail
	for _, mail := range m.sent {
		if mail.Subject == subject {
			out = append(out, mail)
		}
	}
	return out
}

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Program{}, &models.Item{}, &models.Order{}))

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	db.Create(&models.User{
		Firstname:     "Ada",
		Lastname:      "Okafor",
		Email:         "admin@clinic.test",
		Password:      string(hashed),
		PositionTitle: models.RoleAdmin,
		Approved:      true,
	})
	db.Create(&models.User{
		Firstname:     "Tam",
		Lastname:      "Nguyen",
		Email:         "therapist@clinic.test",
		Password:      string(hashed),
		PositionTitle: models.RoleTherapist,
		Approved:      true,
	})
	db.Create(&models.Program{
		ProgramTitle:  "Art Therapy",
		ProgramBudget: decimal.NewFromInt(500),
	})
	return db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

// TestOrderWorkflowEndToEnd walks the whole lifecycle:
// login (both roles) -> therapist submits an order -> admin approves
// (budget 500 -> 300) -> arrived -> ready -> weekly digest.
func TestOrderWorkflowEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	mailer := &captureMailer{}
	r := router.SetupRouter(db, mailer)

	adminToken := login(t, r, "admin@clinic.test")
	therapistToken := login(t, r, "therapist@clinic.test")

	// Therapist submits an order.
	w := doJSON(t, r, http.MethodPost, "/therapist/order", therapistToken, map[string]interface{}{
		"program_id":        1,
		"order_link":        "https://supplies.example/weighted-blanket",
		"item_name":         "Weighted Blanket",
		"price_per_unit":    100,
		"quantity":          2,
		"total_cost":        200,
		"priority_level":    "high",
		"request_date":      time.Now().Format("2006-01-02"),
		"order_description": "Replacement for worn-out blanket",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	orderID := created.Data.ID
	require.NotZero(t, orderID)
	assert.Equal(t, models.OrderStatusPending, created.Data.Status)

	// Admin approves; budget drops to 300.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/admin/approve/%d", orderID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var program models.Program
	require.NoError(t, db.First(&program, 1).Error)
	assert.True(t, program.ProgramBudget.Equal(decimal.NewFromInt(300)))

	assert.Eventually(t, func() bool {
		return len(mailer.bySubject("Order Approved")) == 1
	}, time.Second, 10*time.Millisecond)
	approvedMail := mailer.bySubject("Order Approved")[0]
	assert.Equal(t, "therapist@clinic.test", approvedMail.To)

	// Tracking, arrival, pickup.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/admin/tracking/%d", orderID), adminToken, map[string]string{
		"tracking_number": "1Z999AA10123456784",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/admin/arrived/%d", orderID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/admin/ready/%d", orderID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Eventually(t, func() bool {
		return len(mailer.bySubject("Order Ready for Pickup")) == 1
	}, time.Second, 10*time.Millisecond)

	// Weekly summary reaches the admin inbox.
	w = doJSON(t, r, http.MethodGet, "/admin/weekly", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Eventually(t, func() bool {
		return len(mailer.bySubject("Weekly Orders Summary")) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestApprovalFailsOnInsufficientBudget(t *testing.T) {
	db := setupTestDB(t)
	mailer := &captureMailer{}
	r := router.SetupRouter(db, mailer)

	require.NoError(t, db.Model(&models.Program{}).Where("id = ?", 1).
		Update("program_budget", decimal.NewFromInt(100)).Error)

	adminToken := login(t, r, "admin@clinic.test")
	therapistToken := login(t, r, "therapist@clinic.test")

	w := doJSON(t, r, http.MethodPost, "/therapist/order", therapistToken, map[string]interface{}{
		"program_id":     1,
		"order_link":     "https://supplies.example/easel",
		"item_name":      "Easel",
		"price_per_unit": 200,
		"quantity":       1,
		"total_cost":     200,
		"request_date":   time.Now().Format("2006-01-02"),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/admin/approve/%d", created.Data.ID), adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errResp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "Insufficient budget", errResp.Error)

	var program models.Program
	require.NoError(t, db.First(&program, 1).Error)
	assert.True(t, program.ProgramBudget.Equal(decimal.NewFromInt(100)), "failed approval must not touch the budget")
	assert.Empty(t, mailer.bySubject("Order Approved"))
}

func TestRoleGates(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db, &captureMailer{})

	adminToken := login(t, r, "admin@clinic.test")
	therapistToken := login(t, r, "therapist@clinic.test")

	// No token at all.
	w := doJSON(t, r, http.MethodGet, "/general/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Therapist on an admin route.
	w = doJSON(t, r, http.MethodPut, "/admin/approve/1", therapistToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin on a therapist route.
	w = doJSON(t, r, http.MethodDelete, "/therapist/order/1", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Both roles can use the general listings.
	w = doJSON(t, r, http.MethodGet, "/general/budget", therapistToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/general/orders", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionCookieIsAccepted(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db, &captureMailer{})

	token := login(t, r, "therapist@clinic.test")

	req := httptest.NewRequest(http.MethodGet, "/general/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestTherapistCancelOrder(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db, &captureMailer{})

	therapistToken := login(t, r, "therapist@clinic.test")

	w := doJSON(t, r, http.MethodPost, "/therapist/order", therapistToken, map[string]interface{}{
		"program_id":     1,
		"order_link":     "https://supplies.example/drum",
		"item_name":      "Hand Drum",
		"price_per_unit": 40,
		"quantity":       1,
		"total_cost":     40,
		"request_date":   time.Now().Format("2006-01-02"),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/therapist/order/%d", created.Data.ID), therapistToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order, created.Data.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)

	// Cancelled is terminal.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/therapist/order/%d", created.Data.ID), therapistToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
