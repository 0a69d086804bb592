package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/ygyuri/foodbank-management-system/internal/model"
)

// RegisterValidators adds the enum tags used in binding:"..." to v.
func RegisterValidators(v *validator.Validate) error {
	tags := map[string]func(string) bool{
		"user_role":           func(s string) bool { return model.Role(s).Valid() },
		"donation_type":       func(s string) bool { return model.DonationType(s).Valid() },
		"donation_status":     func(s string) bool { return model.DonationStatus(s).Valid() },
		"feedback_type":       func(s string) bool { return model.FeedbackType(s).Valid() },
		"subscription_status": func(s string) bool { return model.SubscriptionStatus(s).Valid() },
		"recipient_type":      func(s string) bool { return model.RecipientType(s).Valid() },
	}
	for tag, valid := range tags {
		valid := valid
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	return nil
}
