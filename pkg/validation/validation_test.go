package validation

import "testing"

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"tunisian number", "+21612345678", false},
		{"french number", "+33612345678", false},
		{"missing plus", "21612345678", true},
		{"placeholder only", "+216", true},
		{"empty", "", true},
		{"leading zero after plus", "+0216123456", true},
		{"too short", "+2161234", true},
		{"letters", "+216abc45678", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePhone(tt.phone)
			if (got != "") != tt.wantErr {
				t.Errorf("ValidatePhone(%q) = %q, wantErr %v", tt.phone, got, tt.wantErr)
			}
		})
	}
}

func TestValidateLocalPhone(t *testing.T) {
	tests := []struct {
		phone   string
		wantErr bool
	}{
		{"+21612345678", false},
		{"+216123456789", true}, // 9 digits after prefix
		{"+2161234567", true},   // 7 digits after prefix
		{"+33612345678", true},  // wrong country
		{"+216", true},
		{"", true},
	}

	for _, tt := range tests {
		got := ValidateLocalPhone(tt.phone)
		if (got != "") != tt.wantErr {
			t.Errorf("ValidateLocalPhone(%q) = %q, wantErr %v", tt.phone, got, tt.wantErr)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"abc123", false},
		{"abcdef", false},
		{"abc12", true},
		{"", true},
	}

	for _, tt := range tests {
		got := ValidatePassword(tt.password)
		if (got != "") != tt.wantErr {
			t.Errorf("ValidatePassword(%q) = %q, wantErr %v", tt.password, got, tt.wantErr)
		}
	}
}

func TestValidateConfirmPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  bool
	}{
		{"exact match", "secret1", "secret1", false},
		{"case differs", "Secret1", "secret1", true},
		{"trailing space differs", "secret1", "secret1 ", true},
		{"empty confirm", "secret1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateConfirmPassword(tt.password, tt.confirm)
			if (got != "") != tt.wantErr {
				t.Errorf("ValidateConfirmPassword(%q, %q) = %q, wantErr %v", tt.password, tt.confirm, got, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"user@blassa.tn", false},
		{"user@example.com", false},
		{"user@", true},
		{"@example.com", true},
		{"no-at-sign", true},
		{"", true},
	}

	for _, tt := range tests {
		got := ValidateEmail(tt.email)
		if (got != "") != tt.wantErr {
			t.Errorf("ValidateEmail(%q) = %q, wantErr %v", tt.email, got, tt.wantErr)
		}
	}
}

func TestValidateProductionYear(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"", false}, // optional field
		{"2020", false},
		{"1950", false},
		{"2025", false},
		{"1949", true},
		{"2026", true},
		{"abcd", true},
		{"20.5", true},
	}

	for _, tt := range tests {
		got := ValidateProductionYear(tt.raw)
		if (got != "") != tt.wantErr {
			t.Errorf("ValidateProductionYear(%q) = %q, wantErr %v", tt.raw, got, tt.wantErr)
		}
	}
}

func TestValidateLicensePlate(t *testing.T) {
	tests := []struct {
		plate   string
		wantErr bool
	}{
		{"123 TU 4567", false},
		{"1234", false},
		{"abc", true},
		{"   ", true},
		{"", true},
	}

	for _, tt := range tests {
		got := ValidateLicensePlate(tt.plate)
		if (got != "") != tt.wantErr {
			t.Errorf("ValidateLicensePlate(%q) = %q, wantErr %v", tt.plate, got, tt.wantErr)
		}
	}
}

// The register form reports every failing field at once, not just the first.
func TestRegisterFormCollectsAllErrors(t *testing.T) {
	form := RegisterForm{
		Email:           "bad-email",
		Password:        "abc",
		ConfirmPassword: "xyz",
		PhoneNumber:     "+216",
		Gender:          "",
	}

	errs := form.Validate()
	if errs.Valid() {
		t.Fatal("expected validation errors")
	}

	for _, field := range []string{"email", "password", "confirmPassword", "firstName", "lastName", "phoneNumber", "gender", "birthDate"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("missing error for field %q, got %v", field, errs)
		}
	}
}

func TestRegisterFormValid(t *testing.T) {
	form := RegisterForm{
		Email:           "amira@blassa.tn",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		FirstName:       "Amira",
		LastName:        "Ben Salah",
		PhoneNumber:     "+21612345678",
		Gender:          "FEMALE",
		BirthDate:       "1995-04-12",
	}

	if errs := form.Validate(); !errs.Valid() {
		t.Errorf("expected valid form, got %v", errs)
	}
}

func TestCompleteProfileForm(t *testing.T) {
	form := CompleteProfileForm{
		PhoneNumber: "+33612345678", // valid internationally, not locally
		Gender:      "MALE",
		BirthDate:   "1990-01-01",
	}

	errs := form.Validate()
	if _, ok := errs["phoneNumber"]; !ok {
		t.Errorf("expected local phone error, got %v", errs)
	}

	form.PhoneNumber = "+21698765432"
	if errs := form.Validate(); !errs.Valid() {
		t.Errorf("expected valid form, got %v", errs)
	}
}

func TestVehicleFormCollectsAllErrors(t *testing.T) {
	form := VehicleForm{ProductionYear: "1800"}

	errs := form.Validate()
	for _, field := range []string{"make", "model", "color", "licensePlate", "productionYear"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("missing error for field %q, got %v", field, errs)
		}
	}
}

func TestValidateStructTags(t *testing.T) {
	type payload struct {
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone" validate:"required,intlphone"`
	}

	errs := ValidateStruct(payload{Email: "nope", Phone: "12345"})
	if _, ok := errs["email"]; !ok {
		t.Errorf("expected email error keyed by json name, got %v", errs)
	}
	if _, ok := errs["phone"]; !ok {
		t.Errorf("expected phone error keyed by json name, got %v", errs)
	}

	if errs := ValidateStruct(payload{Email: "a@b.tn", Phone: "+21612345678"}); !errs.Valid() {
		t.Errorf("expected valid struct, got %v", errs)
	}
}
