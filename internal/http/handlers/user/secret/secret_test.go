package secret

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/handlertest"
)

func TestSecretHandler(t *testing.T) {
	h := New(handlertest.NewLogger(), handlertest.NewSessions())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, handlertest.AsUser(handlertest.Form(http.MethodGet, "/secret", nil), "alice"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"message":"You made it!"}}`, rec.Body.String())
}
