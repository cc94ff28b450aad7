package calculators

const monthsPerYear = 12

// CompoundInput describes a savings plan. AnnualRate is a percentage.
type CompoundInput struct {
	Principal  float64 `json:"principal"`
	Monthly    float64 `json:"monthly"`
	AnnualRate float64 `json:"annual_rate"`
	Years      int     `json:"years"`
}

// YearRow is the state of the plan at the end of a year.
type YearRow struct {
	Year          int     `json:"year"`
	TotalInvested float64 `json:"total_invested"`
	TotalInterest float64 `json:"total_interest"`
	Balance       float64 `json:"balance"`
}

// CompoundResult is the projection for the whole horizon.
type CompoundResult struct {
	FinalAmount   float64   `json:"final_amount"`
	TotalInvested float64   `json:"total_invested"`
	TotalInterest float64   `json:"total_interest"`
	Yearly        []YearRow `json:"yearly"`
}

// CompoundInterest compounds monthly and deposits Monthly after each
// compounding step. A non-positive horizon or a negative rate yields the
// zero result.
func CompoundInterest(in CompoundInput) CompoundResult {
	rate := in.AnnualRate / 100
	if in.Years <= 0 || rate < 0 {
		return CompoundResult{Yearly: []YearRow{}}
	}

	balance := in.Principal
	rows := make([]YearRow, 0, in.Years)
	for year := 1; year <= in.Years; year++ {
		for month := 0; month < monthsPerYear; month++ {
			balance *= 1 + rate/monthsPerYear
			balance += in.Monthly
		}
		invested := in.Principal + in.Monthly*monthsPerYear*float64(year)
		rows = append(rows, YearRow{
			Year:          year,
			TotalInvested: invested,
			TotalInterest: balance - invested,
			Balance:       balance,
		})
	}

	invested := in.Principal + in.Monthly*monthsPerYear*float64(in.Years)
	return CompoundResult{
		FinalAmount:   balance,
		TotalInvested: invested,
		TotalInterest: balance - invested,
		Yearly:        rows,
	}
}
