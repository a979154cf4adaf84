package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A request that reaches /auth/me without a resolvable identity must be
// rejected, never answered from leftover token claims.
func TestMeHandlerRejectsUnresolvedUser(t *testing.T) {
	app := fiber.New()
	app.Get("/me", MeHandler())

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
