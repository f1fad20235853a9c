package database

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"
)

func TestGetTenantDBPrefersRequestTx(t *testing.T) {
	app := fiber.New()
	c := app.AcquireCtx(&fasthttp.RequestCtx{})
	defer app.ReleaseCtx(c)

	tx := &gorm.DB{}
	c.Locals("tx", tx)

	got, err := GetTenantDB(c)
	require.NoError(t, err)
	assert.Same(t, tx, got, "handlers must ride the transaction opened for the request")
}

func TestGetTenantDBWithoutSchemaFails(t *testing.T) {
	app := fiber.New()
	c := app.AcquireCtx(&fasthttp.RequestCtx{})
	defer app.ReleaseCtx(c)

	_, err := GetTenantDB(c)
	assert.Error(t, err)
}

func TestTenantSessionRejectsEmptySchema(t *testing.T) {
	_, err := TenantSession("   ")
	assert.Error(t, err)
}
