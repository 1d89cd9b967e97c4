package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aitana/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	reply     string
	err       error
	gotToken  string
	gotInput  string
	callCount int
}

func (s *stubChatService) ProcessMessage(ctx context.Context, token, message string) (string, error) {
	s.callCount++
	s.gotToken = token
	s.gotInput = message
	return s.reply, s.err
}

func chatTestRouter(svc *stubChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/chat", NewChatHandler(svc).HandleChat)
	return router
}

func TestHandleChatMintsSessionCookie(t *testing.T) {
	svc := &stubChatService{reply: "Hi, my name is Aitana!"}
	router := chatTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hi, my name is Aitana!", resp.Response)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, cookies[0].Value, svc.gotToken)
	assert.Equal(t, "hello", svc.gotInput)
}

func TestHandleChatReusesExistingCookie(t *testing.T) {
	svc := &stubChatService{reply: "ok"}
	router := chatTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"back again"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-existing"})
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-existing", svc.gotToken)
	assert.Empty(t, w.Result().Cookies(), "existing session must not be re-minted")
}

func TestHandleChatRejectsMissingMessage(t *testing.T) {
	svc := &stubChatService{}
	router := chatTestRouter(svc)

	for _, body := range []string{``, `{}`, `{"message":""}`, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Contains(t, w.Body.String(), "No message provided")
	}
	assert.Zero(t, svc.callCount)
}

func TestHandleChatServiceFailure(t *testing.T) {
	svc := &stubChatService{err: errors.New("upstream down")}
	router := chatTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to get response from assistant")
}
