package domain

var Tables = []interface{}{
	// System
	&SysOprLog{},
	// Accounts
	&Role{},
	&User{},
	// Catalog
	&Category{},
	&Supplier{},
	&Product{},
	// Commerce
	&CartItem{},
	&Order{},
	&OrderItem{},
}
