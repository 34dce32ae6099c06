package domain

// Canonical column names of a sales extract.
const (
	ColumnBillingDate      = "Billing Date"
	ColumnCustomer         = "Customer"
	ColumnCustomerName     = "Name"
	ColumnMaterial         = "Material"
	ColumnItemDescription  = "Item Description"
	ColumnQuantity         = "Quantity"
	ColumnUnitPrice        = "Unit Price"
	ColumnNetAmount        = "Net Amount"
	ColumnProgram          = "Program"
	ColumnProductHierarchy = "Product Hierarchy"
	ColumnSalesRep         = "Sales Rep Name"
)

// RequiredColumns lists every column an extract must provide.
var RequiredColumns = []string{
	ColumnBillingDate,
	ColumnCustomer,
	ColumnCustomerName,
	ColumnMaterial,
	ColumnItemDescription,
	ColumnQuantity,
	ColumnUnitPrice,
	ColumnNetAmount,
	ColumnProgram,
	ColumnProductHierarchy,
	ColumnSalesRep,
}

// DefaultColumnAliases maps the localized headers of the billing system
// export onto canonical column names.
var DefaultColumnAliases = map[string]string{
	"Số Lượng":     ColumnQuantity,
	"Đơn Giá":      ColumnUnitPrice,
	"DS Ðã Trừ CK": ColumnNetAmount,
	"DS Đã Trừ CK": ColumnNetAmount,
	"Tên TDV":      ColumnSalesRep,
}
