package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membership/fulfillment/internal/domain/shared"
)

// Test helpers
func createTestOrder(t *testing.T) *Order {
	o, err := New(uuid.New(), "12 Rue de la Paix, Paris")
	require.NoError(t, err)
	return o
}

func addTestLine(t *testing.T, o *Order, name string, quantity int, price string) *Line {
	unitPrice, err := decimal.NewFromString(price)
	require.NoError(t, err)
	line, err := o.AddLine(uuid.New(), name, quantity, unitPrice)
	require.NoError(t, err)
	return line
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

// ============================================
// Status Tests
// ============================================

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  Status
		isValid bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusShipped, true},
		{StatusDelivered, true},
		{StatusCancelled, true},
		{Status("INVALID"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     Status
		to       Status
		canTrans bool
	}{
		// From PENDING
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		// From CONFIRMED
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusConfirmed, StatusDelivered, false},
		// From SHIPPED
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusConfirmed, false},
		{StatusShipped, StatusPending, false},
		// Terminal states have no outgoing edges
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusDelivered, StatusDelivered, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

// ============================================
// Order Tests
// ============================================

func TestNew(t *testing.T) {
	t.Run("creates pending order", func(t *testing.T) {
		userID := uuid.New()
		o, err := New(userID, "1 Example Street")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, o.ID)
		assert.Equal(t, userID, o.UserID)
		assert.Equal(t, StatusPending, o.Status)
		assert.True(t, o.TotalAmount.IsZero())
		assert.Empty(t, o.Lines)
		assert.Equal(t, o.CreatedAt, o.OrderDate)
	})

	t.Run("rejects empty user ID", func(t *testing.T) {
		_, err := New(uuid.Nil, "1 Example Street")
		assertDomainCode(t, err, shared.CodeValidation)
	})

	t.Run("rejects blank shipping address", func(t *testing.T) {
		_, err := New(uuid.New(), "   ")
		assertDomainCode(t, err, shared.CodeValidation)
	})

	t.Run("trims shipping address", func(t *testing.T) {
		o, err := New(uuid.New(), "  1 Example Street  ")
		require.NoError(t, err)
		assert.Equal(t, "1 Example Street", o.ShippingAddress)
	})
}

func TestOrder_AddLine(t *testing.T) {
	t.Run("accumulates subtotals into total", func(t *testing.T) {
		o := createTestOrder(t)
		addTestLine(t, o, "Keyboard", 2, "10.00")
		addTestLine(t, o, "Mouse", 1, "5.00")

		assert.Equal(t, 2, o.LineCount())
		assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("25.00")),
			"total = %s", o.TotalAmount)
	})

	t.Run("subtotal is unit price times quantity", func(t *testing.T) {
		o := createTestOrder(t)
		line := addTestLine(t, o, "Keyboard", 3, "19.99")

		assert.True(t, line.Subtotal.Equal(decimal.RequireFromString("59.97")))
	})

	t.Run("total equals sum of subtotals", func(t *testing.T) {
		o := createTestOrder(t)
		addTestLine(t, o, "A", 2, "10.00")
		addTestLine(t, o, "B", 1, "5.00")
		addTestLine(t, o, "C", 4, "2.50")

		sum := decimal.Zero
		for _, line := range o.Lines {
			sum = sum.Add(line.Subtotal)
		}
		assert.True(t, o.TotalAmount.Equal(sum))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		o := createTestOrder(t)
		_, err := o.AddLine(uuid.New(), "Keyboard", 0, decimal.NewFromInt(10))
		assertDomainCode(t, err, shared.CodeValidation)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		o := createTestOrder(t)
		_, err := o.AddLine(uuid.New(), "Keyboard", 1, decimal.NewFromInt(-1))
		assertDomainCode(t, err, shared.CodeValidation)
	})

	t.Run("rejects empty product name", func(t *testing.T) {
		o := createTestOrder(t)
		_, err := o.AddLine(uuid.New(), "", 1, decimal.NewFromInt(10))
		assertDomainCode(t, err, shared.CodeValidation)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("legal transition updates status", func(t *testing.T) {
		o := createTestOrder(t)
		err := o.TransitionTo(StatusConfirmed)

		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, o.Status)
	})

	t.Run("illegal edge fails", func(t *testing.T) {
		o := createTestOrder(t)
		err := o.TransitionTo(StatusDelivered)
		assertDomainCode(t, err, shared.CodeInvalidTransition)
		assert.Equal(t, StatusPending, o.Status)
	})

	t.Run("terminal states reject everything", func(t *testing.T) {
		for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
			o := createTestOrder(t)
			o.Status = terminal

			for _, target := range AllStatuses() {
				err := o.TransitionTo(target)
				assertDomainCode(t, err, shared.CodeInvalidTransition)
			}
		}
	})

	t.Run("unknown status fails validation", func(t *testing.T) {
		o := createTestOrder(t)
		err := o.TransitionTo(Status("SHIPPED_BACK"))
		assertDomainCode(t, err, shared.CodeValidation)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancels pending order", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.Cancel())
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("cancels shipped order", func(t *testing.T) {
		o := createTestOrder(t)
		o.Status = StatusShipped
		require.NoError(t, o.Cancel())
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("cannot cancel delivered order", func(t *testing.T) {
		o := createTestOrder(t)
		o.Status = StatusDelivered
		assertDomainCode(t, o.Cancel(), shared.CodeInvalidTransition)
	})

	t.Run("double cancel is an explicit failure", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.Cancel())
		assertDomainCode(t, o.Cancel(), shared.CodeInvalidTransition)
	})
}
