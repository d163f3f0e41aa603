// Package validation implements the form validation rules shared by the
// auth, profile and vehicle flows. Validation never fails fast: every rule
// is evaluated so a form can display all of its errors in one pass.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ronin-tn/blassa-sub000/internal/models"
)

// PhonePlaceholder is the pre-filled country code the clients show; a phone
// field still holding it is treated as not filled in.
const PhonePlaceholder = "+216"

const MinPasswordLength = 6

var (
	phoneRegex      = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
	localPhoneRegex = regexp.MustCompile(`^\+216[0-9]{8}$`)
	emailRegex      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Errors maps field name to a user-facing message. Empty means valid.
type Errors map[string]string

func (e Errors) Valid() bool {
	return len(e) == 0
}

func (e Errors) add(field, msg string) {
	if msg != "" {
		e[field] = msg
	}
}

// Field validators return "" when valid, otherwise a user-facing message.
// They never return an error value; bad input is a message, not a failure.

func ValidateRequired(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return label + " requis"
	}
	return ""
}

func ValidateEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return "Email requis"
	}
	if !emailRegex.MatchString(email) {
		return "Email invalide"
	}
	return ""
}

func ValidatePhone(phone string) string {
	if strings.TrimSpace(phone) == "" || phone == PhonePlaceholder {
		return "Numéro de téléphone requis"
	}
	if !phoneRegex.MatchString(phone) {
		return "Format: +21612345678"
	}
	return ""
}

// ValidateLocalPhone enforces the Tunisian format used by profile
// completion.
func ValidateLocalPhone(phone string) string {
	if strings.TrimSpace(phone) == "" || phone == PhonePlaceholder {
		return "Numéro de téléphone requis"
	}
	if !localPhoneRegex.MatchString(phone) {
		return "Numéro invalide (+216XXXXXXXX)"
	}
	return ""
}

func ValidatePassword(password string) string {
	if password == "" {
		return "Mot de passe requis"
	}
	if len(password) < MinPasswordLength {
		return "Le mot de passe doit contenir au moins 6 caractères"
	}
	return ""
}

// ValidateConfirmPassword requires exact equality, case-sensitive, no
// trimming.
func ValidateConfirmPassword(password, confirm string) string {
	if confirm == "" {
		return "Confirmation requise"
	}
	if password != confirm {
		return "Les mots de passe ne correspondent pas"
	}
	return ""
}

func ValidateBirthDate(birthDate string) string {
	// Non-blank only; no minimum-age rule is enforced.
	if strings.TrimSpace(birthDate) == "" {
		return "Date de naissance requise"
	}
	return ""
}

func ValidateGender(gender string) string {
	switch models.Gender(gender) {
	case models.GenderMale, models.GenderFemale:
		return ""
	}
	return "Genre requis"
}

func ValidateLicensePlate(plate string) string {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return "Immatriculation requise"
	}
	if len(plate) < 4 {
		return "Immatriculation invalide"
	}
	return ""
}

// ValidateProductionYear accepts blank (the field is optional); otherwise
// the raw input must parse as an integer within the allowed bounds.
func ValidateProductionYear(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return "Année invalide"
	}
	if year < models.VehicleMinProductionYear || year > models.VehicleMaxProductionYear {
		return "Année invalide"
	}
	return ""
}

// Form aggregates. Each evaluates every rule and reports all failures.

type RegisterForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber"`
	Gender          string `json:"gender"`
	BirthDate       string `json:"birthDate"`
}

func (f RegisterForm) Validate() Errors {
	errs := Errors{}
	errs.add("email", ValidateEmail(f.Email))
	errs.add("password", ValidatePassword(f.Password))
	errs.add("confirmPassword", ValidateConfirmPassword(f.Password, f.ConfirmPassword))
	errs.add("firstName", ValidateRequired("Prénom", f.FirstName))
	errs.add("lastName", ValidateRequired("Nom", f.LastName))
	errs.add("phoneNumber", ValidatePhone(f.PhoneNumber))
	errs.add("gender", ValidateGender(f.Gender))
	errs.add("birthDate", ValidateBirthDate(f.BirthDate))
	return errs
}

type CompleteProfileForm struct {
	PhoneNumber string `json:"phoneNumber"`
	Gender      string `json:"gender"`
	BirthDate   string `json:"birthDate"`
}

func (f CompleteProfileForm) Validate() Errors {
	errs := Errors{}
	errs.add("phoneNumber", ValidateLocalPhone(f.PhoneNumber))
	errs.add("gender", ValidateGender(f.Gender))
	errs.add("birthDate", ValidateBirthDate(f.BirthDate))
	return errs
}

type VehicleForm struct {
	Make           string `json:"make"`
	Model          string `json:"model"`
	Color          string `json:"color"`
	LicensePlate   string `json:"licensePlate"`
	ProductionYear string `json:"productionYear"`
}

func (f VehicleForm) Validate() Errors {
	errs := Errors{}
	errs.add("make", ValidateRequired("Marque", f.Make))
	errs.add("model", ValidateRequired("Modèle", f.Model))
	errs.add("color", ValidateRequired("Couleur", f.Color))
	errs.add("licensePlate", ValidateLicensePlate(f.LicensePlate))
	errs.add("productionYear", ValidateProductionYear(f.ProductionYear))
	return errs
}

// Struct validation via go-playground tags, for request bodies that only
// need the standard rules. Custom tags mirror the field validators above.

var (
	validate *validator.Validate
	once     sync.Once
)

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		validate.RegisterValidation("intlphone", func(fl validator.FieldLevel) bool {
			return phoneRegex.MatchString(fl.Field().String())
		})
		validate.RegisterValidation("plate", func(fl validator.FieldLevel) bool {
			return len(strings.TrimSpace(fl.Field().String())) >= 4
		})
	})
	return validate
}

// ValidateStruct runs tag-based validation and folds the result into the
// same Errors shape the form aggregates use.
func ValidateStruct(s any) Errors {
	errs := Errors{}
	err := GetValidator().Struct(s)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_"] = "Requête invalide"
		return errs
	}
	for _, fe := range fieldErrs {
		errs[fe.Field()] = messageFor(fe)
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Champ requis"
	case "email":
		return "Email invalide"
	case "min":
		return "Valeur trop courte"
	case "max":
		return "Valeur trop longue"
	case "intlphone":
		return "Format: +21612345678"
	case "plate":
		return "Immatriculation invalide"
	case "oneof":
		return "Valeur non autorisée"
	default:
		return "Champ invalide"
	}
}
