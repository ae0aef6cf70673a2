package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type loginForm struct {
	MobileNumber string `form:"mobile_number" validate:"required,numeric,min=10,max=15"`
	Password     string `form:"password" validate:"required"`
	Plain        string `validate:"required"`
}

func TestFromBindError(t *testing.T) {
	in := loginForm{MobileNumber: "12ab"}
	err := validator.New().Struct(&in)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	got := FromBindError(err, &in)
	want := map[string]string{
		"mobile_number": "Digits only.",
		"password":      "This field is required.",
		"plain":         "This field is required.",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestFromBindErrorOther(t *testing.T) {
	got := FromBindError(errors.New("bad body"), &loginForm{})
	if got["_"] == "" {
		t.Fatalf("got %v", got)
	}
}
