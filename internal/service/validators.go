package service

import (
	"ieltsprep/internal/model"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag  = "notblank"
	halfBandTag  = "halfband"
	qtypeTag     = "qtype"
	skillTypeTag = "skilltype"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(halfBandTag, halfBandValidation)
	_ = Validate.RegisterValidation(qtypeTag, questionTypeValidation)
	_ = Validate.RegisterValidation(skillTypeTag, skillTypeValidation)

	registerCustomValidationsTranslations(notBlankTag, halfBandTag, qtypeTag, skillTypeTag)
}

// registerCustomValidationsTranslations registers error messages for custom tags.
// The default translation is already registered, so a noop register func is passed.
func registerCustomValidationsTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustomValidationErrs)
	}
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case halfBandTag:
		return fe.Field() + " must be a band between 0 and 9 in steps of 0.5"
	case qtypeTag:
		return fe.Field() + " is not a supported question type"
	case skillTypeTag:
		return fe.Field() + " must be one of READING, LISTENING, WRITING, SPEAKING"
	default:
		return ""
	}
}

// ValidateStruct runs struct validation and converts failures into a
// ValidationError keyed by json field names.
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return errors.Wrap(err, "validating request")
	}
	flds := make([]FieldError, 0, len(vErrs))
	msgs := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		msg := fe.Translate(Translator)
		flds = append(flds, FieldError{Field: fe.Field(), Error: msg})
		msgs = append(msgs, msg)
	}
	return &ValidationError{Err: errors.New(strings.Join(msgs, "; ")), Fields: flds}
}

// Custom Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if fl.Field().Kind() == reflect.String {
		return strings.TrimSpace(fl.Field().String()) != ""
	}
	return false
}

func halfBandValidation(fl validator.FieldLevel) bool {
	if fl.Field().Kind() == reflect.Float64 {
		return IsValidBand(fl.Field().Float())
	}
	return false
}

func questionTypeValidation(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String && model.QuestionType(fl.Field().String()).Valid()
}

func skillTypeValidation(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String && model.SkillType(fl.Field().String()).Valid()
}
