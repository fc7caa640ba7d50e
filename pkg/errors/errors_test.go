package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

var (
	testCode  = MustNewCode("test.code")
	testCode2 = MustNewCode("test.code2")
)

func TestNew(t *testing.T) {
	err := New(CommonInternal, "test error", nil)

	if err.Message != "test error" {
		t.Errorf("Expected message 'test error', got '%s'", err.Message)
	}

	if err.Code.String() != "common.internal" {
		t.Errorf("Expected code 'common.internal', got '%s'", err.Code.String())
	}

	if err.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}

	if len(err.Stack) == 0 {
		t.Error("Expected stack trace to be captured")
	}
}

func TestNewWithCause(t *testing.T) {
	cause := stderrors.New("original error")
	err := New(testCode, "wrapped error", cause)

	if err.Message != "wrapped error" {
		t.Errorf("Expected message 'wrapped error', got '%s'", err.Message)
	}

	if !stderrors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}

	if !strings.Contains(err.Error(), "original error") {
		t.Errorf("Expected Error() to include the cause, got '%s'", err.Error())
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CommonInternal, "test error with %s", "formatting")

	expected := "test error with formatting"
	if err.Message != expected {
		t.Errorf("Expected message '%s', got '%s'", expected, err.Message)
	}
}

func TestAddContext(t *testing.T) {
	err := New(testCode, "with context", nil).
		AddContext("dataset_id", "abc123").
		AddContext("operation", "create")

	if err.Context["dataset_id"] != "abc123" {
		t.Errorf("Expected context dataset_id=abc123, got '%s'", err.Context["dataset_id"])
	}
	if err.Context["operation"] != "create" {
		t.Errorf("Expected context operation=create, got '%s'", err.Context["operation"])
	}
}

func TestIsCode(t *testing.T) {
	err := New(testCode, "something", nil)

	if !IsCode(err, testCode) {
		t.Error("Expected IsCode to match testCode")
	}
	if IsCode(err, testCode2) {
		t.Error("Expected IsCode to reject testCode2")
	}
	if IsCode(stderrors.New("plain"), testCode) {
		t.Error("Expected IsCode to reject foreign errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(testCode, "x", nil)); got != "test.code" {
		t.Errorf("Expected 'test.code', got '%s'", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("Expected empty code for foreign error, got '%s'", got)
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Error("Expected nil for nil input")
	}

	internal := New(testCode, "x", nil)
	if AsError(internal) != internal {
		t.Error("Expected internal errors to pass through unchanged")
	}

	converted := AsError(stderrors.New("plain"))
	if !converted.Code.Equals(CommonInternal) {
		t.Errorf("Expected common.internal, got '%s'", converted.Code.String())
	}
}

func TestFormatError(t *testing.T) {
	err := New(testCode, "boom", stderrors.New("root")).AddContext("k", "v")
	out := FormatError(err)

	for _, want := range []string{"Code: test.code", "Message: boom", "k: v", "Cause: root"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected formatted error to contain '%s', got:\n%s", want, out)
		}
	}
}

func TestCodeValidation(t *testing.T) {
	if _, err := NewCode("NoDots"); err == nil {
		t.Error("Expected invalid code without package prefix to fail")
	}
	if _, err := NewCode("pkg.Valid"); err == nil {
		t.Error("Expected uppercase code to fail")
	}

	code, err := NewCode("dataset.not_found")
	if err != nil {
		t.Fatalf("Expected valid code, got error: %v", err)
	}
	if code.Package() != "dataset" || code.Name() != "not_found" {
		t.Errorf("Expected package/name split, got '%s'/'%s'", code.Package(), code.Name())
	}
}
