package core

import (
	"sort"
)

// AggregateMonthly groups receipts by calendar month and accumulates total
// spend, total discount and visit count per month.
//
// The month key is taken from the transaction moment's own calendar, not
// normalized to UTC. Running totals are re-rounded to two decimals after
// every addition; the dashboard was built against numbers produced this way
// and changing it shifts cents on busy months.
//
// The result is sorted ascending by month start. An empty input yields an
// empty slice.
func AggregateMonthly(receipts []Receipt) []MonthlySummary {
	byMonth := make(map[string]*MonthlySummary, len(receipts))

	for _, r := range receipts {
		key := r.MonthKey()
		s, ok := byMonth[key]
		if !ok {
			s = &MonthlySummary{
				SortKey:    key,
				Month:      FormatMonth(r.TransactionMoment),
				MonthStart: r.MonthStart(),
			}
			byMonth[key] = s
		}
		s.Total = Round2(s.Total + r.Total.Amount.Amount)
		s.Discount = Round2(s.Discount + r.TotalDiscount.Amount)
		s.Count++
	}

	out := make([]MonthlySummary, 0, len(byMonth))
	for _, s := range byMonth {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MonthStart.Before(out[j].MonthStart)
	})
	return out
}

// ReceiptStats is the all-time overview shown above the receipt list.
type ReceiptStats struct {
	TotalSpent      float64
	TotalSaved      float64
	AverageReceipt  float64
	HighestReceipt  Receipt
	HighestDiscount Receipt
}

// Stats computes overall statistics across all fetched receipts. The second
// return value is false for an empty input, in which case the summary cards
// render nothing instead of dividing by zero.
func Stats(receipts []Receipt) (ReceiptStats, bool) {
	if len(receipts) == 0 {
		return ReceiptStats{}, false
	}

	st := ReceiptStats{
		HighestReceipt:  receipts[0],
		HighestDiscount: receipts[0],
	}
	for _, r := range receipts {
		st.TotalSpent += r.Total.Amount.Amount
		st.TotalSaved += r.TotalDiscount.Amount
		if r.Total.Amount.Amount > st.HighestReceipt.Total.Amount.Amount {
			st.HighestReceipt = r
		}
		if r.TotalDiscount.Amount > st.HighestDiscount.TotalDiscount.Amount {
			st.HighestDiscount = r
		}
	}
	st.AverageReceipt = st.TotalSpent / float64(len(receipts))
	return st, true
}
