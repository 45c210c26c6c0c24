package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Catalog management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	{Code: "category:view", Name: "View Category"},
	{Code: "category:create", Name: "Create Category"},
	{Code: "category:update", Name: "Update Category"},
	{Code: "category:delete", Name: "Delete Category"},
	// Transactions
	{Code: "transaction:view", Name: "View Transaction"},
	{Code: "transaction:create", Name: "Create Transaction"},
	// Dashboard & reports
	{Code: "dashboard:view", Name: "View Dashboard"},
	{Code: "report:view", Name: "View Reports"},
	// Cash sessions
	{Code: "cash_session:open", Name: "Open Cash Session"},
	{Code: "cash_session:close", Name: "Close Cash Session"},
	{Code: "cash_session:view", Name: "View Cash Session"},
}

// KasirPrivilegeCodes lists the subset granted to the KASIR role.
var KasirPrivilegeCodes = []string{
	"product:view",
	"category:view",
	"transaction:view",
	"transaction:create",
	"dashboard:view",
	"cash_session:open",
	"cash_session:close",
	"cash_session:view",
}
