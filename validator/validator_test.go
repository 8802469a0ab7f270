package validator

import (
	"testing"

	"otp-verify/entity"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	v := New()

	assert.NotNil(t, v)
	assert.NotNil(t, v.validator)
}

func TestValidator_ValidateStruct_Success(t *testing.T) {
	v := New()

	req := entity.SendOTPRequest{
		PhoneNumber: "+14155552671",
	}

	err := v.ValidateStruct(&req)
	assert.NoError(t, err)
}

func TestValidator_ValidateStruct_ValidationError(t *testing.T) {
	v := New()

	req := entity.SendOTPRequest{
		PhoneNumber: "invalid-phone",
	}

	err := v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "phone_number")
}

func TestValidator_ValidateStruct_MissingPhoneNumber(t *testing.T) {
	v := New()

	req := entity.SendOTPRequest{}

	err := v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "phone_number")
}

func TestValidator_ValidatePhoneNumber_Valid(t *testing.T) {
	// All of these are real assignable numbers per country metadata
	validPhones := []string{
		"+14155552671",   // US
		"+447911123456",  // UK mobile
		"+33612345678",   // FR mobile
		"+61412345678",   // AU mobile
		"+8613912345678", // CN mobile
	}

	v := New()
	for _, phone := range validPhones {
		req := entity.SendOTPRequest{PhoneNumber: phone}
		err := v.ValidateStruct(&req)
		assert.NoError(t, err, "Phone number %s should be valid", phone)
	}
}

func TestValidator_ValidatePhoneNumber_Invalid(t *testing.T) {
	invalidPhones := []string{
		"",                    // empty
		"4155552671",          // missing +
		"+1234567890",         // plausible shape, invalid US number
		"+0234567890",         // no country starts with 0
		"+12345",              // too short
		"+123456789012345678", // too long
		"salamsalam",          // random string
		"+abc1234567890",      // contains letters
		"++14155552671",       // double +
		"+1-415-555-2671",     // contains dashes
		"+1 415 555 2671",     // contains spaces
		"+1(415)555-2671",     // contains parentheses
		"(415) 555-2671",      // US format without +
		"+",                   // just +
		"+1",                  // too short after +
	}

	v := New()
	for _, phone := range invalidPhones {
		req := entity.SendOTPRequest{PhoneNumber: phone}
		err := v.ValidateStruct(&req)
		assert.Error(t, err, "Phone number %q should be invalid", phone)
	}
}

func TestValidator_ValidateVerifyOTPRequest_Success(t *testing.T) {
	v := New()

	req := entity.VerifyOTPRequest{
		PhoneNumber: "+14155552671",
		Code:        "123456",
	}

	err := v.ValidateStruct(&req)
	assert.NoError(t, err)
}

func TestValidator_ValidateVerifyOTPRequest_BadCode(t *testing.T) {
	v := New()

	testCases := []struct {
		name string
		code string
	}{
		{"Missing", ""},
		{"Too Short", "12345"},
		{"Too Long", "1234567"},
		{"Non Numeric", "12a456"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := entity.VerifyOTPRequest{
				PhoneNumber: "+14155552671",
				Code:        tc.code,
			}
			err := v.ValidateStruct(&req)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "code")
		})
	}
}

func TestValidator_ValidateSendEmailOTPRequest(t *testing.T) {
	v := New()

	testCases := []struct {
		name        string
		req         entity.SendEmailOTPRequest
		expectError bool
		errorText   string
	}{
		{
			name: "Valid",
			req: entity.SendEmailOTPRequest{
				Email:   "person@example.com",
				Purpose: entity.PurposeRegistration,
			},
		},
		{
			name: "Valid With Device",
			req: entity.SendEmailOTPRequest{
				Email:    "person@example.com",
				Purpose:  entity.PurposeLogin,
				DeviceID: "devfp_abc123",
			},
		},
		{
			name: "Missing Email",
			req: entity.SendEmailOTPRequest{
				Purpose: entity.PurposeRegistration,
			},
			expectError: true,
			errorText:   "email is required",
		},
		{
			name: "Bad Email",
			req: entity.SendEmailOTPRequest{
				Email:   "not-an-email",
				Purpose: entity.PurposeRegistration,
			},
			expectError: true,
			errorText:   "must be a valid email address",
		},
		{
			name: "Unknown Purpose",
			req: entity.SendEmailOTPRequest{
				Email:   "person@example.com",
				Purpose: entity.Purpose("signup"),
			},
			expectError: true,
			errorText:   "must be one of",
		},
		{
			name: "Missing Purpose",
			req: entity.SendEmailOTPRequest{
				Email: "person@example.com",
			},
			expectError: true,
			errorText:   "purpose is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateStruct(&tc.req)
			if tc.expectError {
				assert.Error(t, err)
				if tc.errorText != "" {
					assert.Contains(t, err.Error(), tc.errorText)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_ValidateBlockRequest(t *testing.T) {
	v := New()

	valid := entity.BlockRequest{Kind: "subject", Value: "+14155552671", Reason: "fraud"}
	assert.NoError(t, v.ValidateStruct(&valid))

	validDevice := entity.BlockRequest{Kind: "device", Value: "devfp_abc", TTLSeconds: 3600}
	assert.NoError(t, v.ValidateStruct(&validDevice))

	badKind := entity.BlockRequest{Kind: "ip", Value: "10.0.0.1"}
	assert.Error(t, v.ValidateStruct(&badKind))

	missingValue := entity.BlockRequest{Kind: "subject"}
	assert.Error(t, v.ValidateStruct(&missingValue))
}

func TestValidator_FormatFieldError_PhoneNumberError(t *testing.T) {
	v := New()

	req := entity.SendOTPRequest{PhoneNumber: "invalid"}
	err := v.ValidateStruct(&req)

	assert.Error(t, err)
	errMsg := err.Error()
	assert.Contains(t, errMsg, "phone_number")
	assert.Contains(t, errMsg, "must be a valid phone number")
}

func TestValidator_FormatFieldError_RequiredError(t *testing.T) {
	v := New()

	req := entity.SendOTPRequest{}
	err := v.ValidateStruct(&req)

	assert.Error(t, err)
	errMsg := err.Error()
	assert.Contains(t, errMsg, "phone_number")
	assert.Contains(t, errMsg, "is required")
}

func TestValidator_ValidateStruct_NilInput(t *testing.T) {
	v := New()

	err := v.ValidateStruct(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "input cannot be nil")
}

func TestValidator_ValidateStruct_NonStruct(t *testing.T) {
	v := New()

	err := v.ValidateStruct("not a struct")
	assert.Error(t, err)
}

// Exercise the registered functions directly, outside struct tags
func TestValidatePhoneNumber_Direct(t *testing.T) {
	v := validator.New()
	v.RegisterValidation("phone_number", validatePhoneNumber)

	assert.NoError(t, v.Var("+14155552671", "phone_number"))
	assert.NoError(t, v.Var("+447911123456", "phone_number"))

	assert.Error(t, v.Var("4155552671", "phone_number"))
	assert.Error(t, v.Var("+0234567890", "phone_number"))
	assert.Error(t, v.Var("+12345", "phone_number"))
}

func TestValidatePurpose_Direct(t *testing.T) {
	v := validator.New()
	v.RegisterValidation("otp_purpose", validatePurpose)

	for _, p := range []string{"registration", "login", "password_reset", "verification"} {
		assert.NoError(t, v.Var(p, "otp_purpose"), "purpose %s should be valid", p)
	}

	for _, p := range []string{"", "signup", "LOGIN", "reset"} {
		assert.Error(t, v.Var(p, "otp_purpose"), "purpose %q should be invalid", p)
	}
}
