package database

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetTenantDB returns a *gorm.DB bound to the request's tenant. The
// per-request transaction opened by middlewares.TenantTx is preferred, so
// handlers share one TX that commits or rolls back at the middleware.
// Outside a request TX a fresh session with search_path pinned to the
// tenant schema is returned.
func GetTenantDB(c *fiber.Ctx) (*gorm.DB, error) {
	if tx, ok := c.Locals("tx").(*gorm.DB); ok && tx != nil {
		return tx, nil
	}

	schema, _ := c.Locals("schema").(string)
	return TenantSession(schema)
}

// TenantSession returns a new DB session with search_path pinned to the
// tenant's schema.
func TenantSession(schema string) (*gorm.DB, error) {
	schema = strings.TrimSpace(schema)
	if schema == "" {
		return nil, fmt.Errorf("empty schema name")
	}

	tenantDB := DB.Session(&gorm.Session{NewDB: true})
	if err := tenantDB.Exec(`SET search_path = "` + schema + `", public`).Error; err != nil {
		return nil, fmt.Errorf("set search_path failed: %w", err)
	}

	return tenantDB, nil
}
