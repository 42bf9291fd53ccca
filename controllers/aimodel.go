package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/arogyam/health-portal/db"
	"github.com/arogyam/health-portal/models"
	"github.com/arogyam/health-portal/utils"
)

// UploadAIModel registers a new inference model: weights go to blob storage,
// the registry keeps name, description and the file reference.
func UploadAIModel(c *fiber.Ctx) error {
	modelName := c.FormValue("model_name")
	if modelName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_MODEL",
			Message: "model_name is required",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_MODEL",
			Message: "A model weights file is required",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.Fail(c, err)
	}
	defer file.Close()

	fileRef, err := utils.UploadToCloudinary(file, uuid.NewString(), "ai-models")
	if err != nil {
		return utils.Fail(c, err)
	}

	aiModel := models.AIModel{
		ModelName:   modelName,
		Description: c.FormValue("description"),
		FileRef:     fileRef,
		IsActive:    true,
	}
	if err := db.DB.Create(&aiModel).Error; err != nil {
		return utils.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(aiModel)
}

// ListAIModels returns the model registry. Patients see active models only.
func ListAIModels(c *fiber.Ctx) error {
	query := db.DB.Order("created_at desc")
	if role, _ := c.Locals("role").(string); role != models.RoleAdmin {
		query = query.Where("is_active = true")
	}

	var aiModels []models.AIModel
	if err := query.Find(&aiModels).Error; err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(aiModels)
}

// UpdateAIModel renames, re-describes or toggles a model.
func UpdateAIModel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_MODEL",
			Message: "Invalid model ID",
		})
	}

	var aiModel models.AIModel
	if err := db.DB.First(&aiModel, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    "INVALID_MODEL",
			Message: "AI model not found",
		})
	}

	type ModelInput struct {
		ModelName   *string `json:"model_name"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	input := new(ModelInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_MODEL",
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	updates := map[string]interface{}{}
	if input.ModelName != nil {
		updates["model_name"] = *input.ModelName
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) > 0 {
		if err := db.DB.Model(&aiModel).Updates(updates).Error; err != nil {
			return utils.Fail(c, err)
		}
	}

	return c.JSON(aiModel)
}
