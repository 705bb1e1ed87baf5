package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sweets-api/internal/application/auth"
	"github.com/jhoicas/sweets-api/internal/application/authz"
	"github.com/jhoicas/sweets-api/internal/application/inventory"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/sweets-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/sweets-api/pkg/jwt"
	"github.com/jhoicas/sweets-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "sweets-api-test"
)

type testEnv struct {
	app    *fiber.App
	codec  *pkgjwt.Codec
	authUC *auth.AuthUseCase
}

// newTestEnv arma la aplicación completa sobre los stores en memoria.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.Nop()

	codec, err := pkgjwt.NewCodec(testJWTSecret, testIssuer, pkgjwt.WithRoles("USER", "ADMIN"))
	require.NoError(t, err)
	authUC, err := auth.NewAuthUseCase(memory.NewUserStore(), codec, bcrypt.MinCost, log)
	require.NoError(t, err)
	sweetUC := inventory.NewSweetUseCase(memory.NewSweetStore(), log)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:  authUC,
		SweetUC: sweetUC,
		Gate:    authz.NewGate(codec, nil),
		Log:     log,
	})
	return &testEnv{app: app, codec: codec, authUC: authUC}
}

// tokenForRole genera un JWT con el rol indicado.
func (e *testEnv) tokenForRole(t *testing.T, role entity.Role) string {
	t.Helper()
	tok, err := e.codec.Issue(testUserID, role.String())
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

// adminToken crea el admin inicial y devuelve un token obtenido vía login.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	require.NoError(t, e.authUC.EnsureAdmin(context.Background(), "admin@test.com", "admin-password"))
	resp, body := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "admin@test.com", "password": "admin-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

// userToken registra un usuario nuevo y devuelve su token.
func (e *testEnv) userToken(t *testing.T) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "user@test.com", "password": "user-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

// do lanza una petición y devuelve la respuesta y el body completo.
func (e *testEnv) do(t *testing.T, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

type sweetBody struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    json.Number `json:"price"`
	Quantity int64  `json:"quantity"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}
