package commands_test

import (
	"strings"
	"testing"

	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	lines := []commands.OrderLine{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 3}}

	cmd, err := commands.NewCreateOrderCommand(42, lines, "1 Main St", "leave at door")

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, int64(42), cmd.CustomerID())
	assert.Equal(t, lines, cmd.Lines())
	assert.Equal(t, "1 Main St", cmd.ShippingAddress())
	assert.Equal(t, "leave at door", cmd.Notes())
}

func TestNewCreateOrderCommand_LinesAreCopied(t *testing.T) {
	lines := []commands.OrderLine{{ProductID: 1, Quantity: 2}}
	cmd, err := commands.NewCreateOrderCommand(42, lines, "", "")
	require.NoError(t, err)

	lines[0].Quantity = 99

	assert.Equal(t, 2, cmd.Lines()[0].Quantity)
}

func TestNewCreateOrderCommand_MissingCustomer(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(0, []commands.OrderLine{{ProductID: 1, Quantity: 1}}, "", "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "customerId")
}

func TestNewCreateOrderCommand_NoItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(1, nil, "", "")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "items")
}

func TestNewCreateOrderCommand_InvalidLines(t *testing.T) {
	lines := []commands.OrderLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 0, Quantity: 1},
		{ProductID: 3, Quantity: 0},
	}

	_, err := commands.NewCreateOrderCommand(1, lines, "", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "items[1].productId")
	assert.Contains(t, err.Error(), "items[2].quantity")
	assert.NotContains(t, err.Error(), "items[0]")
}

func TestNewCreateOrderCommand_QuantityAboveLimit(t *testing.T) {
	lines := []commands.OrderLine{{ProductID: 1, Quantity: order.MaxItemQuantity + 1}}

	_, err := commands.NewCreateOrderCommand(1, lines, "", "")

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Contains(t, err.Error(), "items[0].quantity")
}

func TestNewCreateOrderCommand_TextBounds(t *testing.T) {
	lines := []commands.OrderLine{{ProductID: 1, Quantity: 1}}

	_, err := commands.NewCreateOrderCommand(1, lines, strings.Repeat("x", 501), strings.Repeat("y", 1001))

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Contains(t, err.Error(), "shippingAddress")
	assert.Contains(t, err.Error(), "notes")
}

func TestCreateOrderCommand_NotConstructedViaConstructor(t *testing.T) {
	cmd := commands.CreateOrderCommand{}

	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
