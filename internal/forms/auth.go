package forms

import "net/url"

// SignupForm - регистрация нового пользователя.
type SignupForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" validate:"required,min=8,maxbytes=72"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`

	Errors Errors
}

var SignupFields = []Field{
	{Name: "username", Label: "Username", Kind: KindString, Required: true, MaxLength: 150,
		HelpText: "Required. 150 characters or fewer. Letters, digits and @/./+/-/_ only."},
	{Name: "password1", Label: "Password", Kind: KindPassword, Required: true},
	{Name: "password2", Label: "Password confirmation", Kind: KindPassword, Required: true,
		HelpText: "Enter the same password as before, for verification."},
}

func NewSignupForm() *SignupForm {
	return &SignupForm{Errors: Errors{}}
}

func (f *SignupForm) Fields() []Field {
	return SignupFields
}

// Value отдает введенное имя; пароли обратно в форму не попадают.
func (f *SignupForm) Value(name string) string {
	if name == "username" {
		return f.Username
	}
	return ""
}

func (f *SignupForm) Bind(values url.Values) bool {
	f.Errors = Errors{}
	f.Username = value(values, "username")
	// пароли не обрезаем
	f.Password1 = values.Get("password1")
	f.Password2 = values.Get("password2")

	check(f, f.Errors)
	return !f.Errors.Any()
}

// LoginForm - вход по имени пользователя и паролю.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"-"`

	Errors Errors
}

var LoginFields = []Field{
	{Name: "username", Label: "Username", Kind: KindString, Required: true, MaxLength: 150},
	{Name: "password", Label: "Password", Kind: KindPassword, Required: true},
}

func NewLoginForm(next string) *LoginForm {
	return &LoginForm{Next: next, Errors: Errors{}}
}

func (f *LoginForm) Fields() []Field {
	return LoginFields
}

func (f *LoginForm) Value(name string) string {
	if name == "username" {
		return f.Username
	}
	return ""
}

func (f *LoginForm) Bind(values url.Values) bool {
	f.Errors = Errors{}
	f.Username = value(values, "username")
	f.Password = values.Get("password")
	f.Next = values.Get("next")

	check(f, f.Errors)
	return !f.Errors.Any()
}
