package chi

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// requestValidator checks request DTOs against their validate tags.
type requestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	validatorOnce sync.Once
	validatorInst *requestValidator
)

// getValidator returns the shared validator with english messages and json field names.
func getValidator() *requestValidator {
	validatorOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			name, _, _ := strings.Cut(tag, ",")
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		validatorInst = &requestValidator{validate: v, translator: trans}
	})
	return validatorInst
}

// check validates v and returns the first failure as a client-facing message.
func (rv *requestValidator) check(v any) error {
	err := rv.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errors.New(verrs[0].Translate(rv.translator))
	}
	return err
}
