package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Almacen-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testPersonID  = 1
	testIssuer    = "almacen-api-test"
	testExpMin    = 60
)

// buildRoleApp construye una aplicación Fiber mínima con AuthMiddleware, RequireRole
// y un handler dummy que devuelve 200 si pasa los middlewares.
func buildRoleApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT para la persona y el rol indicados, listo para el header Authorization.
func tokenFor(t *testing.T, personID int64, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, personID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func getProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildRoleApp(apphttp.RoleAdmin)
	resp := getProtected(t, app, tokenFor(t, testPersonID, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_BodegueroAccedeRutaDeAprobacion(t *testing.T) {
	app := buildRoleApp(apphttp.RoleAdmin, apphttp.RoleBodeguero)
	resp := getProtected(t, app, tokenFor(t, testPersonID, "Bodeguero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "la comparación de roles no distingue mayúsculas")
}

func TestRequireRole_SolicitanteBloqueado(t *testing.T) {
	app := buildRoleApp(apphttp.RoleAdmin, apphttp.RoleBodeguero)
	resp := getProtected(t, app, tokenFor(t, testPersonID, apphttp.RoleSolicitante))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna403(t *testing.T) {
	app := buildRoleApp(apphttp.RoleAdmin)
	resp := getProtected(t, app, tokenFor(t, testPersonID, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := getProtected(t, buildRoleApp(apphttp.RoleAdmin), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	resp := getProtected(t, buildRoleApp(apphttp.RoleAdmin), "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := getProtected(t, buildRoleApp(apphttp.RoleAdmin), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SecretDistinto_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret", testUserID, testPersonID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := getProtected(t, buildRoleApp(apphttp.RoleAdmin), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"person_id": apphttp.GetPersonID(c),
			"role":      apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, 7, "bodeguero"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		UserID   string `json:"user_id"`
		PersonID int64  `json:"person_id"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, int64(7), body.PersonID)
	assert.Equal(t, "bodeguero", body.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuerpo de error de los middlewares (misma tabla que los errores de dominio)
// ──────────────────────────────────────────────────────────────────────────────

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestMiddlewares_CuerpoDeErrorPorCaso(t *testing.T) {
	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"sin header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"firma inválida", "Bearer token.invalido.aqui", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"sin rol", tokenFor(t, testPersonID, ""), http.StatusForbidden, "MISSING_ROLE"},
		{"rol no permitido", tokenFor(t, testPersonID, apphttp.RoleSolicitante), http.StatusForbidden, "FORBIDDEN"},
	}
	app := buildRoleApp(apphttp.RoleAdmin)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := getProtected(t, app, tc.header)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRequireRole_MensajeIncluyeElRol(t *testing.T) {
	resp := getProtected(t, buildRoleApp(apphttp.RoleAdmin), tokenFor(t, testPersonID, apphttp.RoleSolicitante))
	defer resp.Body.Close()

	body := decodeError(t, resp)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Contains(t, body.Message, "solicitante")
}
