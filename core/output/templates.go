package output

// PayoutTemplate is the blank upload for bulk payout checks, with sample rows.
func PayoutTemplate() Sheet {
	return Sheet{
		Name:    "Payout Template",
		Columns: []string{ColSKU, ColSalePrice, ColCost, ColGSTRate, ColRoyalty},
		Rows: [][]string{
			{"SKU-001", "1045.00", "500.00", "5", "10"},
			{"SKU-002", "1500.00", "750.00", "12", "0"},
		},
	}
}

// PriceTemplate is the blank upload for bulk price calculation, with sample rows.
func PriceTemplate() Sheet {
	return Sheet{
		Name:    "Price Template",
		Columns: []string{ColSKU, ColCost, ColTargetProfit, ColGSTRate, ColMRP, ColRoyalty},
		Rows: [][]string{
			{"SKU-001", "500.00", "100.00", "5", "1899.00", "10"},
			{"SKU-002", "750.00", "150.00", "12", "2499.00", "0"},
		},
	}
}
