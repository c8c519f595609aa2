package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"moviefinder/httpserver"
	"moviefinder/pkg/config"
	appjwt "moviefinder/pkg/jwt"
)

const testJWTSecret = "test-jwt-secret"

func testConfig() *config.Config {
	cfg := &config.Config{AppEnv: "local", Port: 8080}
	cfg.Auth.JWTSecret = testJWTSecret
	return cfg
}

func newTestServer(t *testing.T, opts ...httpserver.Options) *httpserver.Server {
	t.Helper()
	server, err := httpserver.New(append([]httpserver.Options{httpserver.WithConfig(testConfig())}, opts...)...)
	require.NoError(t, err)
	return server
}

func signTestToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := appjwt.NewVerifier(testJWTSecret).Sign(userID, time.Hour)
	require.NoError(t, err)
	return token
}

type apiEnvelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Info    string          `json:"info"`
	Result  json.RawMessage `json:"result"`
}

func decodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var resp apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) apiEnvelope {
	t.Helper()
	resp := decodeAPIResponse(t, rec)
	require.NoError(t, json.Unmarshal(resp.Result, into), string(resp.Result))
	return resp
}

func doJSON(server *httpserver.Server, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	server.Router.ServeHTTP(rec, req)
	return rec
}
