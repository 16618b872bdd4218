package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"medintern/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	app := fiber.New()
	app.Get("/protected", JWTMiddleware, func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		require.True(t, ok, "middleware must stash userId as uint")
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{"user_id": userID})
	})
	return app
}

func TestJWTMiddlewareAcceptsIssuedToken(t *testing.T) {
	app := testApp(t)

	token, err := GenerateJWT(7, "INTERN", "Cardiology")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	app := testApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsMalformedToken(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsWrongKey(t *testing.T) {
	app := testApp(t)

	token, err := GenerateJWT(7, "INTERN", "Cardiology")
	require.NoError(t, err)

	// Token minted under one key must not verify under another.
	config.AppConfig.JWTKey = "rotated-secret"
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
