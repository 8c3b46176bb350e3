package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "resource not found",
			},
			want: "resource not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to process",
				Cause:   errors.New("underlying error"),
			},
			want: "failed to process: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AppError{
		Code:    ErrCodeInternal,
		Message: "wrapped error",
		Cause:   cause,
	}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestDenied(t *testing.T) {
	err := Denied("wrong-state", "The current status does not allow this action.")
	if !IsDenied(err) {
		t.Errorf("IsDenied() = false, want true")
	}
	if got := GetReason(err); got != "wrong-state" {
		t.Errorf("GetReason() = %v, want wrong-state", got)
	}
}

func TestUnauthorized(t *testing.T) {
	err := Unauthorized("session expired")
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized() = false, want true")
	}
	if err.Message != "session expired" {
		t.Errorf("Unauthorized().Message = %v, want %v", err.Message, "session expired")
	}
}

func TestIsCodeChecks_ThroughWrapping(t *testing.T) {
	base := NotFoundf("job %s not found", "job-1")
	wrapped := fmt.Errorf("load job: %w", base)

	if !IsNotFound(wrapped) {
		t.Errorf("IsNotFound() should see through fmt.Errorf wrapping")
	}
	if GetCode(wrapped) != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", GetCode(wrapped), ErrCodeNotFound)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, ErrCodeInternal, "failed to persist job")

	if !IsInternal(err) {
		t.Errorf("Wrap() code = %v, want %v", GetCode(err), ErrCodeInternal)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Wrap() should preserve the cause chain")
	}

	if wrapped := Wrap(nil, ErrCodeInternal, "ignored"); wrapped != nil {
		t.Errorf("Wrap(nil) = %v, want nil", wrapped)
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("budget", "must be positive")
	if !IsValidation(err) {
		t.Errorf("IsValidation() = false, want true")
	}
	if got := GetField(err); got != "budget" {
		t.Errorf("GetField() = %v, want budget", got)
	}
}
