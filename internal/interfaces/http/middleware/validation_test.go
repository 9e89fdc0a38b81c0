package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/hrms/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type punchBody struct {
	WorkMode string `json:"work_mode" binding:"omitempty,workmode"`
	Notes    string `json:"notes" binding:"max=10"`
	Today    string `json:"today" binding:"required"`
}

func validationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, SetupValidator())

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req punchBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	w := postJSON(validationRouter(t), `{"work_mode":"beach","notes":"far too long for the limit"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Must be office or home", fields["work_mode"])
	assert.Equal(t, "Must be at most 10 characters", fields["notes"])
	assert.Equal(t, "This field is required", fields["today"])
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	w := postJSON(validationRouter(t), `{"today":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
	assert.Contains(t, resp.Error.Message, "Malformed request")
}

func TestWorkModeValidation(t *testing.T) {
	router := validationRouter(t)

	for _, mode := range []string{"office", "home", ""} {
		t.Run("accepts "+mode, func(t *testing.T) {
			w := postJSON(router, `{"work_mode":"`+mode+`","today":"ship it"}`)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}

	t.Run("rejects upper case", func(t *testing.T) {
		w := postJSON(router, `{"work_mode":"OFFICE","today":"ship it"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegisterValidations_StandaloneValidator(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, RegisterValidations(v))

	err := v.Struct(punchBody{WorkMode: "remote", Today: "x"})
	require.Error(t, err)
	resp := FormatValidationErrors(err, "req-1")
	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "work_mode", resp.Error.Details[0].Field)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}
