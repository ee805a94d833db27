// Package validate checks decoded request bodies and reports failures keyed
// by their JSON path, e.g. groupSchedules.0.startTime.
package validate

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/graphicode-dev/classroom/internal/apierror"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator
)

const notBlankTag = "notblank"

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "koanf"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = Validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	_ = Validate.RegisterTranslation(notBlankTag, Translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " cannot be blank"
		})
}

var indexReplacer = strings.NewReplacer("[", ".", "]", "")

// Path turns a validator namespace into a dotted JSON path. The root struct
// name is dropped and indices become segments.
func Path(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		namespace = rest
	}
	return indexReplacer.Replace(namespace)
}

// Struct validates v. It returns nil when v is valid.
func Struct(v any) apierror.ValidationErrors {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierror.ValidationErrors{"": {err.Error()}}
	}
	out := make(apierror.ValidationErrors, len(verrs))
	for _, fe := range verrs {
		path := Path(fe.Namespace())
		out[path] = append(out[path], fe.Translate(Translator))
	}
	return out
}
