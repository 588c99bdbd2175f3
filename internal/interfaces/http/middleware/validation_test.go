package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/backend/internal/interfaces/http/dto"
)

type bindingSample struct {
	Name         string   `json:"name" binding:"required,max=10"`
	Phone        string   `json:"phone" binding:"required,notblank"`
	PaymentTerms string   `json:"payment_terms" binding:"omitempty,payment_terms"`
	Amenities    []string `json:"amenities" binding:"omitempty,dive,amenity"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	r := gin.New()
	r.Use(RequestID())
	r.POST("/x", func(c *gin.Context) {
		var req bindingSample
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestSetupValidator_CustomTags(t *testing.T) {
	r := newValidationRouter()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"valid", `{"name":"Ali","phone":"0501234567","payment_terms":"quarterly"}`, http.StatusOK, ""},
		{"terms optional", `{"name":"Ali","phone":"0501234567"}`, http.StatusOK, ""},
		{"landline phone", `{"name":"Ali","phone":"0112345678"}`, http.StatusOK, ""},
		{"prefixed phone", `{"name":"Ali","phone":"+966112345678"}`, http.StatusOK, ""},
		{"blank phone", `{"name":"Ali","phone":"   "}`, http.StatusBadRequest, "phone"},
		{"bad terms", `{"name":"Ali","phone":"0501234567","payment_terms":"weekly"}`, http.StatusBadRequest, "payment_terms"},
		{"missing name", `{"phone":"0501234567"}`, http.StatusBadRequest, "name"},
		{"known amenities", `{"name":"Ali","phone":"0501234567","amenities":["gym"," Pool "]}`, http.StatusOK, ""},
		{"unknown amenity", `{"name":"Ali","phone":"0501234567","amenities":["gym","helipad"]}`, http.StatusBadRequest, "amenities[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantField == "" {
				return
			}
			info := decodeError(t, rec)
			assert.Equal(t, dto.ErrCodeValidation, info.Code)
			require.Len(t, info.Details, 1)
			assert.Equal(t, tt.wantField, info.Details[0].Field)
			assert.NotEqual(t, "Invalid value", info.Details[0].Message)
		})
	}
}

func TestFormatValidationErrors_MalformedJSON(t *testing.T) {
	r := newValidationRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	info := decodeError(t, rec)
	assert.Equal(t, dto.ErrCodeBadRequest, info.Code)
	assert.Empty(t, info.Details)
}
