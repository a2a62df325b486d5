package services

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/eidbazar/eidbazar-api/models"
	"github.com/go-playground/validator/v10"
)

// Bangladeshi mobile numbers: 11 digits, operator prefixes 013-019.
var bdPhonePattern = regexp.MustCompile(`^01[3-9][0-9]{8}$`)

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json field names instead of Go struct field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("bdphone", func(fl validator.FieldLevel) bool {
		return bdPhonePattern.MatchString(fl.Field().String())
	})

	return v
}

// NormalizeOrderRequest trims user-typed fields and upper-cases the promo
// code so the rest of the pipeline works on canonical values.
func NormalizeOrderRequest(req *models.CreateOrderRequest) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.CustomerAddress = strings.TrimSpace(req.CustomerAddress)
	req.PaymentMethod = strings.ToUpper(strings.TrimSpace(req.PaymentMethod))
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	req.PromoCode = strings.ToUpper(strings.TrimSpace(req.PromoCode))
	for i := range req.Items {
		req.Items[i].ProductID = strings.TrimSpace(req.Items[i].ProductID)
	}
}

// collectFieldErrors runs struct validation and maps every failure to a
// field-level message. Nothing short-circuits: the caller gets all problems
// in one pass.
func collectFieldErrors(v *validator.Validate, value any) []FieldError {
	err := v.Struct(value)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Message: "invalid request body"}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fieldName(fe),
			Message: fieldMessage(fe),
		})
	}
	return fields
}

func fieldName(fe validator.FieldError) string {
	// Namespace looks like "CreateOrderRequest.items[0].quantity"; drop the
	// struct name so clients see the same path they sent.
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_unless":
		return "is required for this payment method"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must not be empty"
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "bdphone":
		return "must be a valid Bangladeshi mobile number (e.g. 01712345678)"
	case "number":
		return "must be a valid product id"
	default:
		return fmt.Sprintf("is invalid (%s)", fe.Tag())
	}
}
