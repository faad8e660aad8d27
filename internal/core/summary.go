package core

// Dashboard is the income/expense/net summary for a single month bucket.
type Dashboard struct {
	Income   Money
	Expenses Money
	Net      Money
}

// MonthTotals is one row of the yearly overview.
type MonthTotals struct {
	Month    int // 1-12
	Income   Money
	Expenses Money
	Net      Money
}

// FillMissingMonths expands sparse per-month rows into exactly twelve rows,
// zero-filling months without bookings or expenses.
func FillMissingMonths(rows []MonthTotals) []MonthTotals {
	byMonth := make(map[int]MonthTotals, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	out := make([]MonthTotals, 0, 12)
	for m := 1; m <= 12; m++ {
		r, ok := byMonth[m]
		if !ok {
			r = MonthTotals{Month: m}
		}
		r.Net = Money{Cents: r.Income.Cents - r.Expenses.Cents}
		out = append(out, r)
	}
	return out
}
