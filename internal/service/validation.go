package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AbhignaKuchukulla/Issueflow/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

// maxBytes bounds the encoded length of a string, unlike max which counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Field rules shared by create, replace, patch and bulk update.
var (
	ruleTitle       = "min=3,max=100"
	ruleDescription = "min=3,max=1000"
	ruleStatus      = "oneof=" + joinEnum(domain.TicketStatuses, " ")
	rulePriority    = "oneof=" + joinEnum(domain.TicketPriorities, " ")
	ruleAssignee    = "max=50"
	ruleCommentText = "min=1,max=500"
	ruleAuthor      = "max=50"
	ruleFilterName  = "min=1,max=50"
	ruleUserName    = "min=1,max=50"
	ruleEmail       = "email"
	rulePassword    = "min=6,maxbytes=72"
)

func joinEnum[T ~string](values []T, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, sep)
}

// checkField validates one value against rule and returns a readable violation,
// or "" when the value passes.
func checkField(name string, value any, rule string) string {
	err := validate.Var(value, rule)
	if err == nil {
		return ""
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Sprintf("%s is invalid", name)
	}
	return describe(name, fieldErrs[0])
}

func describe(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("%s is required", name)
		}
		return fmt.Sprintf("%s must be at least %s chars", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s chars", name, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.Join(strings.Fields(fe.Param()), ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// violations collects non-empty messages.
type violations []string

func (v *violations) check(name string, value any, rule string) {
	if msg := checkField(name, value, rule); msg != "" {
		*v = append(*v, msg)
	}
}
