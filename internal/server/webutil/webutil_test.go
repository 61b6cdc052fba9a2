package webutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/scmexpert/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

func TestMakeHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"http error", ErrForbidden("Not enough permissions"), http.StatusForbidden, "Not enough permissions"},
		{"default message", ErrConflict(""), http.StatusConflict, "Conflict"},
		{"wrapped cause hidden", ErrInternalServerWrap("db", errors.New("secret detail")), http.StatusInternalServerError, "Internal Server Error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := MakeHandler(logging.Nop{}, func(w http.ResponseWriter, r *http.Request) error { return tt.err })
			rr := httptest.NewRecorder()
			h(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, ContentTypeJSONUTF8, rr.Header().Get(HeaderContentType))
			assert.Equal(t, tt.wantMsg, decodeError(t, rr))
		})
	}
}

func TestMakeHandler_SuccessAndLateError(t *testing.T) {
	ok := MakeHandler(logging.Nop{}, func(w http.ResponseWriter, r *http.Request) error {
		RespondWithJSON(w, http.StatusCreated, map[string]int{"n": 1})
		return nil
	})
	rr := httptest.NewRecorder()
	ok(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"n":1}`, rr.Body.String())

	late := MakeHandler(logging.Nop{}, func(w http.ResponseWriter, r *http.Request) error {
		RespondWithJSON(w, http.StatusOK, map[string]int{"n": 1})
		return errors.New("after write")
	})
	rr = httptest.NewRecorder()
	late(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"n":1}`, rr.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "a@x.com", dst.Email)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","role":"admin"}`))
	err := DecodeJSON(r, &dst)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`))
	assert.Error(t, DecodeJSON(r, &dst))
}

func TestHTTPError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := ErrBadRequestWrap("", cause)
	assert.Equal(t, "Bad Request", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusNotFound, ErrNotFound("").Code)
	assert.Equal(t, http.StatusUnauthorized, ErrUnauthorized("").Code)
}
