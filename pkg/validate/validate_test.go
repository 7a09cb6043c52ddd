package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type billingForm struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=100"`
	Email     string `json:"email"     validate:"required,email"`
	Zip       string `json:"zip"       validate:"required,digits=6"`
	Landmark  string `json:"landmark"  validate:"nullable,min=3"`
	Method    string `json:"method"    validate:"required,in=COD|UPI|Razorpay"`
	UPIID     string `json:"upiId"     validate:"nullable,regex=^[a-z]+@[a-z]+$"`
}

func valid() billingForm {
	return billingForm{
		FirstName: "Ravi",
		Email:     "ravi@example.com",
		Zip:       "560001",
		Method:    "COD",
	}
}

func TestStructValid(t *testing.T) {
	errs := Struct(valid())
	assert.Empty(t, errs)
	assert.False(t, HasErrors(errs))
}

func TestStructFailures(t *testing.T) {
	f := valid()
	f.FirstName = " "
	f.Email = "nope"
	f.Zip = "56000"
	f.Method = "Barter"
	f.UPIID = "Not-An-Upi"

	errs := Struct(f)
	assert.Contains(t, errs, "firstName")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "zip")
	assert.Contains(t, errs, "method")
	assert.Contains(t, errs, "upiId")
	assert.True(t, HasErrors(errs))
}

func TestNullableSkipsEmptyFields(t *testing.T) {
	f := valid()
	f.Landmark = ""
	f.UPIID = ""
	assert.Empty(t, Struct(f))

	f.Landmark = "ab" // present, so min applies
	assert.Contains(t, Struct(f), "landmark")
}

func TestDigitsRule(t *testing.T) {
	f := valid()
	f.Zip = "56a001"
	assert.Contains(t, Struct(f), "zip")

	f.Zip = "5600012"
	assert.Contains(t, Struct(f), "zip")
}

func TestPointerInput(t *testing.T) {
	f := valid()
	assert.Empty(t, Struct(&f))
}

func TestNonStructInput(t *testing.T) {
	assert.Empty(t, Struct("not a struct"))
}
