package reports

// PeriodSum is the revenue and profit total over one reporting window.
type PeriodSum struct {
	TotalPayment int64 `json:"totalPayment"`
	Profit       int64 `json:"profit"`
}

// Report bundles the four standard windows.
type Report struct {
	Daily   PeriodSum `json:"daily"`
	Weekly  PeriodSum `json:"weekly"`
	Monthly PeriodSum `json:"monthly"`
	Yearly  PeriodSum `json:"yearly"`
}
