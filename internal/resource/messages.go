package resource

// Messages are the notifications one resource kind emits.
type Messages struct {
	Created      string
	Updated      string
	Deleted      string
	CreateFailed string
	UpdateFailed string
	DeleteFailed string
}

var (
	CustomerMessages = Messages{
		Created:      "Customer added successfully",
		Updated:      "Customer updated successfully",
		Deleted:      "Customer deleted successfully",
		CreateFailed: "Failed to add customer",
		UpdateFailed: "Failed to update customer",
		DeleteFailed: "Failed to delete customer",
	}
	ExpenseMessages = Messages{
		Created:      "Expense logged successfully",
		Updated:      "Expense updated successfully",
		Deleted:      "Expense deleted successfully",
		CreateFailed: "Failed to log expense",
		UpdateFailed: "Failed to update expense",
		DeleteFailed: "Failed to delete expense",
	}
	InventoryMessages = Messages{
		Created:      "Item added successfully",
		Updated:      "Item updated successfully",
		Deleted:      "Item deleted successfully",
		CreateFailed: "Failed to add item",
		UpdateFailed: "Failed to update item",
		DeleteFailed: "Failed to delete item",
	}
	SaleMessages = Messages{
		Created:      "Sale recorded successfully",
		Updated:      "Sale updated successfully",
		Deleted:      "Sale deleted successfully",
		CreateFailed: "Failed to record sale",
		UpdateFailed: "Failed to update sale",
		DeleteFailed: "Failed to delete sale",
	}
)
