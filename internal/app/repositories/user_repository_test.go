package repositories

import (
	"errors"
	"testing"

	"github.com/yigit/campushub/internal/pkg/apperrors"
)

func TestPinDecision(t *testing.T) {
	tests := []struct {
		name       string
		pinned     bool
		count      int
		wantInsert bool
		wantErr    error
	}{
		{"first pin", false, 0, true, nil},
		{"last free slot", false, 2, true, nil},
		{"full", false, 3, false, apperrors.ErrLimitExceeded},
		{"already pinned at capacity", true, 3, false, nil},
		{"already pinned", true, 1, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insert, err := pinDecision(tt.pinned, tt.count, 3)
			if insert != tt.wantInsert {
				t.Errorf("insert = %v, want %v", insert, tt.wantInsert)
			}
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	_, err := pinDecision(false, 3, 3)
	if msg, _ := apperrors.UserMessage(err); msg != "You can pin up to 3 conversations." {
		t.Errorf("message = %q", msg)
	}
}
