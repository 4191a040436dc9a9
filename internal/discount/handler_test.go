package discount

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService(NewInMemoryRepository(), nil)
	h := NewHandler(svc, nil)

	r := gin.New()
	r.GET("/discounts", h.List())
	r.POST("/discounts", h.Create())
	r.PUT("/discounts", h.Update())
	r.DELETE("/discounts", h.Delete())
	r.POST("/discounts/calculate", h.Calculate())
	return r, svc
}

func doJSON(r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListSetsCacheControl(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/discounts", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestCreateDiscount(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/discounts", validPercentage())
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success  bool     `json:"success"`
		Discount Discount `json:"discount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Discount.ID)
}

func TestCreateDiscountValidationError(t *testing.T) {
	r, _ := newTestRouter(t)

	d := validPercentage()
	d.Name = ""

	w := doJSON(r, http.MethodPost, "/discounts", d)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Fields  []FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotEmpty(t, resp.Fields)
	assert.Equal(t, "name", resp.Fields[0].Field)
}

func TestDeleteDiscountMissingID(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodDelete, "/discounts", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteDiscountNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodDelete, "/discounts?id=missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateDiscountNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	d := validPercentage()
	d.ID = "missing"

	w := doJSON(r, http.MethodPut, "/discounts", d)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalculateEndpoint(t *testing.T) {
	r, svc := newTestRouter(t)

	d := validPercentage()
	require.NoError(t, svc.Create(context.Background(), d))

	w := doJSON(r, http.MethodPost, "/discounts/calculate", gin.H{
		"discountId": d.ID,
		"amount":     2000,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Result  Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 300.0, resp.Result.DiscountAmount)
	assert.Equal(t, 1700.0, resp.Result.FinalAmount)
}

func TestCalculateEndpointRejectsBadAmount(t *testing.T) {
	r, svc := newTestRouter(t)

	d := validPercentage()
	require.NoError(t, svc.Create(context.Background(), d))

	w := doJSON(r, http.MethodPost, "/discounts/calculate", gin.H{
		"discountId": d.ID,
		"amount":     -10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateEndpointUnknownDiscount(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/discounts/calculate", gin.H{
		"discountId": "missing",
		"amount":     1000,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
