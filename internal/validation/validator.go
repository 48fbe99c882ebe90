// Package validation はvalidator/v10を使ったフォーム入力の検証を提供する。
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/cozyyu/internal/model"
)

// Validator はvalidator/v10をラップし、検証エラーをAPIErrorに変換する。
type Validator struct {
	v *validator.Validate
}

// New はJSONタグ名でフィールドを報告するValidatorを生成する。
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate は構造体を検証し、違反があればVALIDATION_FAILEDのAPIErrorを返す。
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fields[fieldName(e)] = friendlyMessage(e)
	}
	return model.NewValidationError(fields)
}

// fieldName はスライス要素のエラーでも親フィールド名を返す。
// "tags[3]" -> "tags"
func fieldName(e validator.FieldError) string {
	name, _, _ := strings.Cut(e.Field(), "[")
	return name
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "обязательное поле"
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("не более %s элементов", e.Param())
		}
		return fmt.Sprintf("не более %s символов", e.Param())
	case "gte":
		return "должно быть не меньше " + e.Param()
	case "uuid":
		return "некорректный идентификатор"
	case "oneof":
		return "допустимые значения: " + e.Param()
	default:
		return "некорректное значение"
	}
}
