package controllers

import (
	"facturacion-backend/database"
	"facturacion-backend/models"

	"github.com/gofiber/fiber/v2"
)

func CreateSupplier(c *fiber.Ctx) error {
	var data map[string]string

	if err := c.BodyParser(&data); err != nil {
		return err
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not retrieve tenant schema")
	}

	supplier := models.Supplier{
		CompanyName: data["company_name"],
		NIT:         data["nit"],
		Address:     data["address"],
		City:        data["city"],
		Department:  data["department"],
		PhoneNumber: data["phone_number"],
		Email:       data["email"],
	}

	// Writes ride the request TX; returning an error rolls it back.
	if err := tenantDB.Create(&supplier).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not create supplier")
	}

	return c.JSON(supplier)
}

func UpdateSupplier(c *fiber.Ctx) error {
	var data map[string]string

	if err := c.BodyParser(&data); err != nil {
		return err
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not retrieve tenant schema")
	}

	supplier := models.Supplier{
		NIT:         data["nit"],
		Address:     data["address"],
		City:        data["city"],
		Department:  data["department"],
		PhoneNumber: data["phone_number"],
		Email:       data["email"],
	}

	if err := tenantDB.Model(&supplier).Where("id = ?", c.Params("id")).Updates(&supplier).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not update supplier")
	}

	return c.JSON(supplier)
}

func GetSuppliers(c *fiber.Ctx) error {
	var suppliers []models.Supplier

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not retrieve tenant schema")
	}

	tenantDB.Model(&models.Supplier{}).Find(&suppliers)
	return c.JSON(fiber.Map{
		"suppliers": suppliers,
		"message":   "success",
	})
}
