package errors

import (
	"errors"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(errors.New("disk full"), ExitSystem),
			want: "disk full",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	underlying := errors.New("archive directory unreadable")
	err := NewSystemError(underlying, "check the archive directory")

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find the wrapped sentinel")
	}

	var exitErr *ExitError
	if !errors.As(error(err), &exitErr) {
		t.Fatal("errors.As should find *ExitError")
	}
	if exitErr.Code != ExitSystem {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitSystem)
	}
	if exitErr.Suggestion == "" {
		t.Error("Suggestion should be preserved")
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError(errors.New("config file not found"))
	if err.Code != ExitUser {
		t.Errorf("Code = %d, want %d", err.Code, ExitUser)
	}
	if err.Suggestion == "" {
		t.Error("config errors should carry a suggestion")
	}
}
