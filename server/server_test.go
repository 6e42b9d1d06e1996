package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reqBody *strings.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	} else {
		reqBody = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func Test_handleCheck(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectStatus int
		expectResult string
	}{
		{
			name:         "satisfiable",
			body:         `{"formula": "a"}`,
			expectStatus: http.StatusOK,
			expectResult: "SAT",
		},
		{
			name:         "unsatisfiable",
			body:         `{"formula": "a & !a"}`,
			expectStatus: http.StatusOK,
			expectResult: "UNSAT",
		},
		{
			name:         "temporal",
			body:         `{"formula": "(a U b) & G !b"}`,
			expectStatus: http.StatusOK,
			expectResult: "UNSAT",
		},
		{
			name:         "syntax error",
			body:         `{"formula": "a &"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "missing formula",
			body:         `{}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "malformed body",
			body:         `{"formula": `,
			expectStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			rec, body := doRequest(t, New(), "POST", PathPrefix+"/check", tc.body)

			assert.Equal(tc.expectStatus, rec.Code)
			if tc.expectResult != "" {
				assert.Equal(tc.expectResult, body["result"])
			} else {
				assert.NotEmpty(body["error"])
			}
		})
	}
}

func Test_handleCheck_withModel(t *testing.T) {
	assert := assert.New(t)

	rec, body := doRequest(t, New(), "POST", PathPrefix+"/check", `{"formula": "a", "model": true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal("SAT", body["result"])

	model, ok := body["model"].(map[string]interface{})
	require.True(t, ok, "expected a model object, got %v", body["model"])

	states, ok := model["states"].([]interface{})
	require.True(t, ok)
	require.Len(t, states, 1)
	assert.Equal([]interface{}{"a"}, states[0])
	assert.Equal(float64(0), model["loop"])
}

func Test_handleCheck_modelNotRequested(t *testing.T) {
	assert := assert.New(t)

	rec, body := doRequest(t, New(), "POST", PathPrefix+"/check", `{"formula": "a"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	_, present := body["model"]
	assert.False(present, "model should be omitted unless requested")
}

func Test_handleHealth(t *testing.T) {
	assert := assert.New(t)

	rec, body := doRequest(t, New(), "GET", PathPrefix+"/health", "")

	assert.Equal(http.StatusOK, rec.Code)
	assert.Equal("ok", body["status"])
	assert.NotEmpty(body["version"])
}

func Test_unknownRouteIs404(t *testing.T) {
	rec, _ := doRequest(t, New(), "GET", "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
