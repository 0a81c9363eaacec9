package v1

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"

	apierrors "github.com/hrygo/vnchrono/server/internal/errors"
)

type validatorSvc struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

// getValidator returns the request validator, reporting fields by json name
// with english messages.
func getValidator() *validatorSvc {
	vOnce.Do(func() {
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

		vSvc = &validatorSvc{validate: v, translator: trans}
	})
	return vSvc
}

// bindJSON decodes the request body into T and validates it. Unknown fields
// and trailing data are rejected.
func bindJSON[T any](c echo.Context) (T, error) {
	var zero, dst T

	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return zero, apierrors.InvalidArgument("empty body")
		}
		// Set by the body limit middleware.
		var httpErr *echo.HTTPError
		if stderrors.As(err, &httpErr) {
			return zero, httpErr
		}
		return zero, apierrors.InvalidArgument("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, apierrors.InvalidArgument("unexpected trailing data")
	}

	if err := getValidator().validate.Struct(dst); err != nil {
		field, msg := validationFieldAndMessage(err)
		apiErr := apierrors.InvalidArgument("%s", msg)
		if field != "" {
			apiErr = apiErr.WithDetail("field", field)
		}
		return zero, apiErr
	}
	return dst, nil
}

// validationFieldAndMessage returns the first failing field and its
// translated message.
func validationFieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		for _, fe := range verrs {
			return fe.Field(), fe.Translate(getValidator().translator)
		}
	}
	return "", err.Error()
}
