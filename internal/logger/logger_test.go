package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWithContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/progressions", nil)
	c.Set("request_id", "req-1")

	fields := WithContext(c)
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, http.MethodPost, fields["method"])
	assert.Equal(t, "/api/v1/progressions", fields["path"])
	assert.NotContains(t, fields, "user_id")

	c.Set("user_id_str", "42")
	assert.Equal(t, "42", WithContext(c)["user_id"])
}

func TestFormatFields(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
	assert.Equal(t, "{seed=123}", formatFields(Fields{"seed": int64(123)}))
	assert.Equal(t, "{ratio=0.25}", formatFields(Fields{"ratio": 0.25}))
	assert.Equal(t, "{key=Eb}", formatFields(Fields{"key": "Eb"}))
}
