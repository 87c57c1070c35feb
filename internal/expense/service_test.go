package expense

import (
	"context"
	"errors"
	"testing"

	"github.com/divvyup/divvy/internal/expense/split"
)

func TestUpdateExpenseRejectsSplitChangeWithoutParticipants(t *testing.T) {
	tests := []struct {
		name      string
		splitType string
	}{
		{name: "equal", splitType: string(split.TypeEqual)},
		{name: "exact", splitType: string(split.TypeExact)},
		{name: "percentage", splitType: string(split.TypePercentage)},
		{name: "custom", splitType: string(split.TypeCustom)},
	}

	svc := &Service{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.splitType
			_, err := svc.UpdateExpense(context.Background(), 1, 1, &UpdateExpenseRequest{SplitType: &st})
			if !errors.Is(err, split.ErrEmptyParticipantSet) {
				t.Fatalf("UpdateExpense() error = %v, want ErrEmptyParticipantSet", err)
			}
		})
	}
}
