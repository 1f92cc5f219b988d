package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/money"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func statusFor(err error) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, err)
	return w.Code
}

func TestRespondErrorStatuses(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&service.ValidationError{Field: "amount", Msg: "is required"}))
	assert.Equal(t, http.StatusBadRequest, statusFor(&service.ValidationError{Field: "walletId", Msg: "x", Err: service.ErrNoDefaultWallet}))
	assert.Equal(t, http.StatusBadRequest, statusFor(repository.ErrInsufficientBalance))
	assert.Equal(t, http.StatusBadRequest, statusFor(service.ErrTransferLeg))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("transfer: %w", service.ErrWalletArchived)))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("store: %w", money.ErrOverflow)))
	assert.Equal(t, http.StatusNotFound, statusFor(service.ErrWalletNotFound))
	assert.Equal(t, http.StatusNotFound, statusFor(repository.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("disk on fire")))
}

func TestParseRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	loc := time.FixedZone("ICT", 7*3600)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?from=2025-02-01&to=2025-02-28", nil)
	rg, ok := parseRange(c, loc)
	assert.True(t, ok)
	if assert.NotNil(t, rg.From) && assert.NotNil(t, rg.To) {
		assert.True(t, rg.From.Equal(time.Date(2025, 1, 31, 17, 0, 0, 0, time.UTC)))
		assert.True(t, rg.To.Equal(time.Date(2025, 2, 28, 16, 59, 59, 999999999, time.UTC)))
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?from=soon", nil)
	_, ok = parseRange(c, loc)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func bindStatus(dst interface{}, body string) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if bindJSON(c, dst) {
		return http.StatusOK
	}
	return w.Code
}

func TestBindingTags(t *testing.T) {
	cases := []struct {
		name string
		dst  func() interface{}
		body string
		want int
	}{
		{"wallet ok", func() interface{} { return &service.WalletInput{} }, `{"name":"Cash","type":"ewallet","currency":"usd"}`, http.StatusOK},
		{"wallet without name", func() interface{} { return &service.WalletInput{} }, `{"type":"cash"}`, http.StatusBadRequest},
		{"wallet type", func() interface{} { return &service.WalletInput{} }, `{"name":"Cash","type":"crypto"}`, http.StatusBadRequest},
		{"wallet currency", func() interface{} { return &service.WalletInput{} }, `{"name":"Cash","currency":"dollar"}`, http.StatusBadRequest},
		{"wallet patch type", func() interface{} { return &service.WalletPatch{} }, `{"type":"gold"}`, http.StatusBadRequest},
		{"wallet patch empty", func() interface{} { return &service.WalletPatch{} }, `{}`, http.StatusOK},
		{"transfer ok", func() interface{} { return &service.TransferInput{} }, `{"fromWalletId":1,"toWalletId":2,"amount":5}`, http.StatusOK},
		{"transfer without source", func() interface{} { return &service.TransferInput{} }, `{"toWalletId":2,"amount":5}`, http.StatusBadRequest},
		{"transfer zero amount", func() interface{} { return &service.TransferInput{} }, `{"fromWalletId":1,"toWalletId":2,"amount":0}`, http.StatusBadRequest},
		{"transfer over limit", func() interface{} { return &service.TransferInput{} }, `{"fromWalletId":1,"toWalletId":2,"amount":1000000000000001}`, http.StatusBadRequest},
		{"income at limit", func() interface{} { return &service.EntryInput{} }, `{"source":"Pay","amount":1000000000000000}`, http.StatusOK},
		{"income zero", func() interface{} { return &service.EntryInput{} }, `{"source":"Pay","amount":0}`, http.StatusOK},
		{"income over limit", func() interface{} { return &service.EntryInput{} }, `{"source":"Pay","amount":1000000000000001}`, http.StatusBadRequest},
		{"income negative", func() interface{} { return &service.EntryInput{} }, `{"source":"Pay","amount":-1}`, http.StatusBadRequest},
		{"income without amount", func() interface{} { return &service.EntryInput{} }, `{"source":"Pay"}`, http.StatusBadRequest},
		{"income without source", func() interface{} { return &service.EntryInput{} }, `{"amount":5}`, http.StatusBadRequest},
		{"tip without customer", func() interface{} { return &service.TipInput{} }, `{"amount":5}`, http.StatusOK},
		{"patch over limit", func() interface{} { return &service.EntryPatch{} }, `{"amount":1000000000000001}`, http.StatusBadRequest},
		{"goal target", func() interface{} { return &service.GoalInput{} }, `{"name":"Trip","targetAmount":0}`, http.StatusBadRequest},
		{"withdrawal", func() interface{} { return &service.ContributionInput{} }, `{"amount":-500}`, http.StatusOK},
		{"zero contribution", func() interface{} { return &service.ContributionInput{} }, `{"amount":0}`, http.StatusBadRequest},
		{"debt without title", func() interface{} { return &service.DebtInput{} }, `{"amount":100}`, http.StatusBadRequest},
		{"debt payment", func() interface{} { return &service.DebtContributionInput{} }, `{"amount":0}`, http.StatusBadRequest},
		{"preset ok", func() interface{} { return &presetRequest{} }, `{"type":"income","source":"Pay"}`, http.StatusOK},
		{"preset type", func() interface{} { return &presetRequest{} }, `{"type":"gift","source":"Pay"}`, http.StatusBadRequest},
		{"preset negative", func() interface{} { return &presetRequest{} }, `{"type":"expense","source":"Tea","amount":-1}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, bindStatus(tc.dst(), tc.body))
		})
	}
}
