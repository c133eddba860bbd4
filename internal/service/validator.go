package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"modion/internal/errors"
	"modion/internal/model"
)

var readingTimePattern = regexp.MustCompile(`^\d+ min read$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("reading_time", func(fl validator.FieldLevel) bool {
		return readingTimePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validator returns the validator shared by request binding and persistence.
func Validator() *validator.Validate {
	return validate
}

func validateArticle(article *model.Article, except ...string) error {
	var err error
	if len(except) > 0 {
		err = validate.StructExcept(article, except...)
	} else {
		err = validate.Struct(article)
	}
	if err != nil {
		return &errors.ValidationError{Err: err}
	}
	return nil
}
