package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators は独自のバリデーションを gin のバリデーターに登録します。
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("time_before", timeBefore); err != nil {
			log.Fatalf("Failed to register time_before validator: %v", err)
		}
	})
}

// timeBefore は HH:MM 形式の値が param で指定したフィールドより前かを検証します。
func timeBefore(fl validator.FieldLevel) bool {
	other, kind, _, ok := fl.GetStructFieldOKAdvanced2(fl.Parent(), fl.Param())
	if !ok || kind != reflect.String {
		return false
	}
	start, err := time.Parse("15:04", fl.Field().String())
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", other.String())
	if err != nil {
		return false
	}
	return start.Before(end)
}

// validationMessage はバインドエラーを利用者向けの文章にします。
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request payload"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, " ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s.", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters.", field, fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must be less than or equal to the highest price.", field)
	case "gtefield":
		return fmt.Sprintf("%s must be greater than or equal to the lowest price.", field)
	case "time_before":
		return fmt.Sprintf("%s must be before the closing time.", field)
	case "eqfield":
		return fmt.Sprintf("%s does not match.", field)
	case "datetime":
		return fmt.Sprintf("%s must match the format %s.", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}
