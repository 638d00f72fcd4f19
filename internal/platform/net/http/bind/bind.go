// Package bind decodes and validates JSON request bodies
package bind

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps how much of a request body ParseJSON reads
const MaxBody int64 = 1 << 20

// codePattern matches DCB short codes such as agency and location codes
var codePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Validator pairs the validator with its english translator
type Validator struct {
	V     *validator.Validate
	Trans ut.Translator
}

var (
	once sync.Once
	inst *Validator
)

// Get returns the shared validator, building it on first use
func Get() *Validator {
	once.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterValidation("code", func(fl validator.FieldLevel) bool {
			return codePattern.MatchString(fl.Field().String())
		})
		message(v, trans, "code", "{0} may only hold letters, digits, dots, dashes and underscores")
		message(v, trans, "min", "{0} must be at least {1}")
		message(v, trans, "max", "{0} must be at most {1}")

		inst = &Validator{V: v, Trans: trans}
	})
	return inst
}

// jsonName reports fields by their wire name so errors line up with what the browser sent
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func message(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// ParseJSON decodes one JSON document into T and validates it
// Unknown fields, trailing data and oversized bodies are rejected as json errors
// An empty body yields the zero T for GET and DELETE and a json error otherwise
func ParseJSON[T any](r *http.Request) (T, error) {
	var zero T
	if r.Body == nil {
		return emptyBody[T](r)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("close request body")
		}
	}()

	br := bufio.NewReader(http.MaxBytesReader(nil, r.Body, MaxBody))
	if _, err := br.Peek(1); errors.Is(err, io.EOF) {
		return emptyBody[T](r)
	}

	dec := json.NewDecoder(br)
	dec.DisallowUnknownFields()
	var dst T
	if err := dec.Decode(&dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return zero, perr.JSONErrf("request body exceeds %d bytes", MaxBody)
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

func emptyBody[T any](r *http.Request) (T, error) {
	var zero T
	switch r.Method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		return zero, nil
	}
	return zero, perr.JSONErrf("empty body")
}

// Validate runs struct validation on v and returns the first failure as a validation error
// carrying the offending json field name
func Validate(v any) error {
	err := Get().V.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator misuse")
		return perr.JSONErrf("validation error")
	}
	field, msg := FieldMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// FieldMessage returns the first failing field and its translated message
func FieldMessage(err error) (field, msg string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Trans)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}
