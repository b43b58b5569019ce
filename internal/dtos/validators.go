package dtos

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/job-jotter/internal/models"
)

const clockLayout = "15:04"

// RegisterValidators adds the "date" (YYYY-MM-DD) and "clock" (HH:MM) rules
// to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("date", layoutRule(models.DateLayout)); err != nil {
		return err
	}
	return v.RegisterValidation("clock", layoutRule(clockLayout))
}

func layoutRule(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}
