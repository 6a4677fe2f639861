package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JRimIT/Travel-Buddy-sub000/internal/apperr"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Conflict("занято"), http.StatusConflict},
		{apperr.NotFound("нет"), http.StatusNotFound},
		{apperr.Validation("пусто"), http.StatusBadRequest},
		{apperr.Unauthorized("чужое"), http.StatusForbidden},
		{apperr.Internal("база", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		respondError(c, tc.err)
		if rec.Code != tc.want {
			t.Errorf("respondError(%v) = %d, ожидалось %d", tc.err, rec.Code, tc.want)
		}
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	respondError(c, apperr.Internal("dsn=postgres://user:pass@db", nil))
	if body := rec.Body.String(); body == "" || rec.Code != http.StatusInternalServerError {
		t.Fatalf("неожиданный ответ: %d %s", rec.Code, body)
	}
	if got := rec.Body.String(); got != `{"error":"Внутренняя ошибка сервера"}` {
		t.Errorf("внутренние детали утекли наружу: %s", got)
	}
}

func TestActorFromHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-User-ID", "42")
	c.Request.Header.Set("X-User-Role", "support")

	act, ok := actor(c)
	if !ok {
		t.Fatal("actor не извлечен")
	}
	if act.UserID != 42 || !act.IsSupport() {
		t.Errorf("actor = %+v", act)
	}
}

func TestActorMissingUserRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := actor(c); ok {
		t.Fatal("запрос без X-User-ID прошел")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("код = %d, ожидалось 401", rec.Code)
	}
}

func TestActorDefaultsToTraveler(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-User-ID", "7")

	act, ok := actor(c)
	if !ok {
		t.Fatal("actor не извлечен")
	}
	if !act.IsTraveler() {
		t.Errorf("роль по умолчанию = %q, ожидалось traveler", act.Role)
	}
}
