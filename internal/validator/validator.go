// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"grana/internal/models"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("goal_category", validateGoalCategory)
		_ = v.RegisterValidation("asset_type", validateAssetType)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return true
	}
	return false
}

func validateGoalCategory(fl validator.FieldLevel) bool {
	switch models.GoalCategory(fl.Field().String()) {
	case models.GoalCategoryCasa, models.GoalCategoryCarro, models.GoalCategoryViagem,
		models.GoalCategoryEducacao, models.GoalCategoryAposentadoria,
		models.GoalCategoryEmergencia, models.GoalCategorySaude, models.GoalCategoryOutros:
		return true
	}
	return false
}

func validateAssetType(fl validator.FieldLevel) bool {
	t := models.AssetType(fl.Field().String())
	for _, known := range models.AllAssetTypes {
		if t == known {
			return true
		}
	}
	return false
}
