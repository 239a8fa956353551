package forms

import (
	"errors"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Тексты ошибок, которые видит пользователь.
const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// FieldKind - тип поля формы.
type FieldKind string

const (
	KindText     FieldKind = "text"     // многострочный текст
	KindChoice   FieldKind = "choice"   // выбор одного значения из списка
	KindString   FieldKind = "string"   // однострочный текст
	KindPassword FieldKind = "password" // пароль
)

// Field - статическое описание поля формы.
type Field struct {
	Name      string
	Label     string
	Kind      FieldKind
	Required  bool
	MaxLength int
	HelpText  string
}

// Errors - ошибки по полям; ключ "" для ошибок формы целиком.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Get(field string) []string {
	return e[field]
}

func (e Errors) Any() bool {
	return len(e) > 0
}

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance отдает общий валидатор; имена полей берутся из тега form.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
		// max считает символы, а bcrypt ограничен байтами
		_ = validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			return err == nil && len(fl.Field().String()) <= limit
		})
	})
	return validate
}

// check прогоняет теги validate структуры и раскладывает ошибки по полям.
func check(v any, errs Errors) {
	err := validatorInstance().Struct(v)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("", err.Error())
		return
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "min":
		return "Ensure this value has at least " + fe.Param() + " characters."
	case "eqfield":
		return "The two password fields didn't match."
	case "maxbytes":
		return "Ensure this value has at most " + fe.Param() + " bytes."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	default:
		return "Enter a valid value."
	}
}

// value достает значение поля; строки обрезаются по краям, как это делает CharField.
func value(values url.Values, name string) string {
	return strings.TrimSpace(values.Get(name))
}
