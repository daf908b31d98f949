package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Accounts are issued French IBANs: country code plus 20 digits.
var ibanPattern = regexp.MustCompile(`^FR\d{20}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iban", validIBAN)
	}
}

func validIBAN(fl validator.FieldLevel) bool {
	return ibanPattern.MatchString(fl.Field().String())
}
