package core

import (
	"math"
	"testing"
	"time"
)

func receiptAt(moment string, total, discount float64) Receipt {
	t, err := time.Parse(time.RFC3339, moment)
	if err != nil {
		panic(err)
	}
	return Receipt{
		TransactionID:     moment,
		TransactionMoment: t,
		Total:             ReceiptTotal{Amount: Amount{Amount: total, Currency: "EUR"}},
		TotalDiscount:     Amount{Amount: discount, Currency: "EUR"},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateMonthlyEmpty(t *testing.T) {
	if got := AggregateMonthly(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	if got := AggregateMonthly([]Receipt{}); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestAggregateMonthlyGroupsAndSorts(t *testing.T) {
	receipts := []Receipt{
		receiptAt("2024-02-01T10:00:00Z", 20.00, 0),
		receiptAt("2024-01-05T18:32:00Z", 10.005, 1.00),
		receiptAt("2024-01-20T09:15:00Z", 5.00, 0.50),
	}

	got := AggregateMonthly(receipts)
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}

	jan, feb := got[0], got[1]
	if jan.SortKey != "2024-01" || feb.SortKey != "2024-02" {
		t.Fatalf("wrong keys or order: %q, %q", jan.SortKey, feb.SortKey)
	}
	if !jan.MonthStart.Before(feb.MonthStart) {
		t.Fatalf("summaries not ascending by month start")
	}
	if jan.Count != 2 || feb.Count != 1 {
		t.Fatalf("wrong counts: jan=%d feb=%d", jan.Count, feb.Count)
	}
	// 10.005 rounds down to 10.00 at the first step (its float64 value sits
	// just below 10.005), then 5.00 lands on 15.00.
	if !almostEqual(jan.Total, 15.00) {
		t.Fatalf("jan total = %v, want 15.00", jan.Total)
	}
	if !almostEqual(jan.Discount, 1.50) {
		t.Fatalf("jan discount = %v, want 1.50", jan.Discount)
	}
	if !almostEqual(feb.Total, 20.00) || !almostEqual(feb.Discount, 0) {
		t.Fatalf("feb totals = %v/%v, want 20.00/0", feb.Total, feb.Discount)
	}
	if jan.Month != "januari 2024" || feb.Month != "februari 2024" {
		t.Fatalf("wrong display months: %q, %q", jan.Month, feb.Month)
	}
}

func TestAggregateMonthlyDistinctKeysOnce(t *testing.T) {
	receipts := []Receipt{
		receiptAt("2023-12-31T23:00:00Z", 1, 0),
		receiptAt("2024-01-01T00:00:00Z", 1, 0),
		receiptAt("2024-01-15T12:00:00Z", 1, 0),
		receiptAt("2024-03-01T08:00:00Z", 1, 0),
	}
	got := AggregateMonthly(receipts)

	want := []string{"2023-12", "2024-01", "2024-03"}
	if len(got) != len(want) {
		t.Fatalf("expected %d summaries, got %d", len(want), len(got))
	}
	for i, key := range want {
		if got[i].SortKey != key {
			t.Fatalf("summary %d key = %q, want %q", i, got[i].SortKey, key)
		}
	}
}

// Cumulative per-step rounding is observable: three 0.005 receipts add up to
// 0.03, while rounding the plain sum once would give 0.02.
func TestAggregateMonthlyRoundsEveryStep(t *testing.T) {
	receipts := []Receipt{
		receiptAt("2024-05-01T10:00:00Z", 0.005, 0),
		receiptAt("2024-05-02T10:00:00Z", 0.005, 0),
		receiptAt("2024-05-03T10:00:00Z", 0.005, 0),
	}

	got := AggregateMonthly(receipts)
	if len(got) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(got))
	}
	if !almostEqual(got[0].Total, 0.03) {
		t.Fatalf("cumulative-rounded total = %v, want 0.03", got[0].Total)
	}

	singlePass := Round2(0.005 + 0.005 + 0.005)
	if almostEqual(got[0].Total, singlePass) {
		t.Fatalf("fixture does not distinguish cumulative from single-pass rounding")
	}
}

// The grouping month comes from the timestamp's own offset, not from UTC.
func TestAggregateMonthlyUsesLocalCalendar(t *testing.T) {
	// 2024-02-01T00:30+02:00 is still January in UTC.
	receipts := []Receipt{receiptAt("2024-02-01T00:30:00+02:00", 9.99, 0)}

	got := AggregateMonthly(receipts)
	if len(got) != 1 || got[0].SortKey != "2024-02" {
		t.Fatalf("expected key 2024-02, got %+v", got)
	}
	if got[0].MonthStart.Day() != 1 || got[0].MonthStart.Month() != time.February {
		t.Fatalf("month start = %v, want first of February", got[0].MonthStart)
	}
}

func TestStatsEmpty(t *testing.T) {
	if _, ok := Stats(nil); ok {
		t.Fatalf("expected no stats for empty input")
	}
}

func TestStats(t *testing.T) {
	receipts := []Receipt{
		receiptAt("2024-01-05T18:32:00Z", 10.00, 1.00),
		receiptAt("2024-01-20T09:15:00Z", 30.00, 0.50),
		receiptAt("2024-02-01T10:00:00Z", 20.00, 4.00),
	}

	st, ok := Stats(receipts)
	if !ok {
		t.Fatalf("expected stats")
	}
	if !almostEqual(st.TotalSpent, 60.00) {
		t.Fatalf("total spent = %v", st.TotalSpent)
	}
	if !almostEqual(st.TotalSaved, 5.50) {
		t.Fatalf("total saved = %v", st.TotalSaved)
	}
	if !almostEqual(st.AverageReceipt, 20.00) {
		t.Fatalf("average = %v", st.AverageReceipt)
	}
	if st.HighestReceipt.TransactionID != "2024-01-20T09:15:00Z" {
		t.Fatalf("wrong highest receipt: %s", st.HighestReceipt.TransactionID)
	}
	if st.HighestDiscount.TransactionID != "2024-02-01T10:00:00Z" {
		t.Fatalf("wrong highest discount: %s", st.HighestDiscount.TransactionID)
	}
}
