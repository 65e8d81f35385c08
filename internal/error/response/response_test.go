package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/error/code"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(err error) (*httptest.ResponseRecorder, Response) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/alert/ALRT001", nil)
	Error(c, err)

	var body Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestErrorMapsSentinels(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   int
	}{
		{fmt.Errorf("%w: alert ALRT009", services.ErrNotFound), http.StatusNotFound, code.ErrResourceNotFound},
		{fmt.Errorf("%w: terminal T001 is already occupied", services.ErrResourceConflict), http.StatusConflict, code.ErrResourceConflict},
		{fmt.Errorf("%w: missing water_level", services.ErrValidation), http.StatusBadRequest, code.ErrValidation},
		{fmt.Errorf("%w: alert has no rescue form", services.ErrPreconditionFailed), http.StatusPreconditionFailed, code.ErrPreconditionFailed},
	}
	for _, tt := range tests {
		w, body := render(tt.err)
		assert.Equal(t, tt.wantStatus, w.Code, tt.err.Error())
		assert.Equal(t, tt.wantCode, body.Code)
		assert.Equal(t, tt.err.Error(), body.Message)
	}
}

func TestErrorHidesUnclassified(t *testing.T) {
	w, body := render(errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, code.ErrUnknown, body.Code)
	assert.NotContains(t, body.Message, "10.0.0.5")
}

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, gin.H{"id": "T001"})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(code.ErrSuccess), body["code"])
	assert.Equal(t, "T001", body["data"].(map[string]interface{})["id"])
}
