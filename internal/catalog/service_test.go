package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adts-project/adts/internal/shared"
)

type memoryRepo struct {
	departmentItems []DepartmentItem
	items           map[int64]Item
	owned           []OwnedItem
	borrowed        []BorrowedItem
}

func (m *memoryRepo) ListDepartmentItems(_ context.Context, dptID, excludeEmpID int64) ([]DepartmentItem, error) {
	var out []DepartmentItem
	for _, it := range m.departmentItems {
		if it.CurrentDptID == dptID && it.AccountableEmp != excludeEmpID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetItem(_ context.Context, itemID int64) (Item, error) {
	it, ok := m.items[itemID]
	if !ok {
		return Item{}, shared.ErrNotFound
	}
	return it, nil
}

func (m *memoryRepo) ListOwnedItems(_ context.Context, _ int64) ([]OwnedItem, error) {
	return m.owned, nil
}

func (m *memoryRepo) ListBorrowedItems(_ context.Context, _ int64) ([]BorrowedItem, error) {
	return m.borrowed, nil
}

func TestListBorrowedItemsAggregates(t *testing.T) {
	repo := &memoryRepo{borrowed: []BorrowedItem{
		{TransactionID: 1, Quantity: 2, ItemName: "Projector"},
		{TransactionID: 2, Quantity: 5, ItemName: "Laptop"},
		{TransactionID: 3, Quantity: 1, ItemName: "Printer", AlreadyRequestedReturn: true},
	}}
	svc := NewService(repo)

	summary, err := svc.ListBorrowedItems(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 3, summary.TotalTransactions)
	require.Equal(t, int64(8), summary.TotalQuantity)
	require.Len(t, summary.Items, 3)
}

func TestListBorrowedItemsEmpty(t *testing.T) {
	svc := NewService(&memoryRepo{})

	summary, err := svc.ListBorrowedItems(context.Background(), 3)
	require.NoError(t, err)
	require.Zero(t, summary.TotalQuantity)
	require.Zero(t, summary.TotalTransactions)
	require.Empty(t, summary.Items)
}

func TestListDepartmentItemsExcludesRequester(t *testing.T) {
	repo := &memoryRepo{departmentItems: []DepartmentItem{
		{DistributedItemID: 1, CurrentDptID: 2, AccountableEmp: 5, ItemName: "Projector"},
		{DistributedItemID: 2, CurrentDptID: 2, AccountableEmp: 7, ItemName: "Laptop"},
		{DistributedItemID: 3, CurrentDptID: 9, AccountableEmp: 5, ItemName: "Printer"},
	}}
	svc := NewService(repo)

	items, err := svc.ListDepartmentItems(context.Background(), 2, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Projector", items[0].ItemName)
}
