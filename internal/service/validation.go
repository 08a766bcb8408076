package service

import (
	"classquiz_backend/internal/util"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateStruct 校验失败时返回 KindValidation 错误
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return util.NewValidationError("%s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Namespace(), fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", fe.Namespace())
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", fe.Namespace(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag())
	}
}
