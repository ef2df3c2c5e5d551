package summary

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/ArionMiles/voxpense/pkg/api"
	"github.com/ArionMiles/voxpense/pkg/format"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestSummarize_Scenario(t *testing.T) {
	expenses := []api.Expense{
		{Name: "groceries", Category: api.CategoryFood, Amount: 200},
		{Name: "concert", Category: api.CategoryFun, Amount: 300},
	}

	// June has 30 days; 20 remain after the 10th.
	r := Summarize(expenses, 1000, day(t, "2025-06-10"))

	wantByCategory := []CategoryTotal{
		{Category: api.CategoryFood, Amount: 200},
		{Category: api.CategoryFun, Amount: 300},
	}
	if !reflect.DeepEqual(r.ByCategory, wantByCategory) {
		t.Errorf("ByCategory = %v, want %v", r.ByCategory, wantByCategory)
	}
	if r.TotalSpent != 500 {
		t.Errorf("TotalSpent = %d, want 500", r.TotalSpent)
	}
	if r.RemainingBudget != 500 {
		t.Errorf("RemainingBudget = %d, want 500", r.RemainingBudget)
	}
	if r.RemainingDays != 20 {
		t.Errorf("RemainingDays = %d, want 20", r.RemainingDays)
	}
	if r.DailyAllowance != 25 {
		t.Errorf("DailyAllowance = %d, want 25", r.DailyAllowance)
	}
}

func TestSummarize_GroupsInFirstSeenOrder(t *testing.T) {
	expenses := []api.Expense{
		{Name: "a", Category: api.CategoryWork, Amount: 10},
		{Name: "b", Category: api.CategoryFood, Amount: 5},
		{Name: "c", Category: api.CategoryWork, Amount: 7},
		{Name: "d", Category: "presents", Amount: 1},
	}

	r := Summarize(expenses, 100, day(t, "2025-06-01"))

	want := []CategoryTotal{
		{Category: api.CategoryWork, Amount: 17},
		{Category: api.CategoryFood, Amount: 5},
		{Category: "presents", Amount: 1},
	}
	if !reflect.DeepEqual(r.ByCategory, want) {
		t.Errorf("ByCategory = %v, want %v", r.ByCategory, want)
	}
}

func TestSummarize_LastDayOfMonth(t *testing.T) {
	expenses := []api.Expense{{Name: "x", Category: api.CategoryOthers, Amount: 150}}

	r := Summarize(expenses, 1000, day(t, "2025-01-31"))

	if r.RemainingDays != 0 {
		t.Fatalf("RemainingDays = %d, want 0", r.RemainingDays)
	}
	if r.DailyAllowance != r.RemainingBudget {
		t.Errorf("DailyAllowance = %d, want RemainingBudget %d", r.DailyAllowance, r.RemainingBudget)
	}
}

func TestSummarize_OverBudgetFloors(t *testing.T) {
	expenses := []api.Expense{{Name: "tv", Category: api.CategoryHome, Amount: 1100}}

	// 3 days remain after 2025-06-27; -100/3 floors to -34.
	r := Summarize(expenses, 1000, day(t, "2025-06-27"))

	if r.RemainingBudget != -100 {
		t.Errorf("RemainingBudget = %d, want -100", r.RemainingBudget)
	}
	if r.DailyAllowance != -34 {
		t.Errorf("DailyAllowance = %d, want -34", r.DailyAllowance)
	}
}

func TestSummarize_Empty(t *testing.T) {
	r := Summarize(nil, 600, day(t, "2025-06-24"))

	if len(r.ByCategory) != 0 || r.TotalSpent != 0 {
		t.Errorf("empty log gave ByCategory=%v TotalSpent=%d", r.ByCategory, r.TotalSpent)
	}
	if r.DailyAllowance != 100 {
		t.Errorf("DailyAllowance = %d, want 100", r.DailyAllowance)
	}
}

func TestSummarize_TotalsAreConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	categories := api.Categories()

	for i := 0; i < 200; i++ {
		n := rng.Intn(30)
		expenses := make([]api.Expense, n)
		for j := range expenses {
			expenses[j] = api.Expense{
				Name:     "item",
				Category: categories[rng.Intn(len(categories))],
				Amount:   rng.Int63n(10_000),
			}
		}
		budget := rng.Int63n(50_000)

		r := Summarize(expenses, budget, day(t, "2025-02-11"))

		var sum int64
		for _, c := range r.ByCategory {
			sum += c.Amount
		}
		if sum != r.TotalSpent {
			t.Fatalf("category totals sum to %d, TotalSpent = %d", sum, r.TotalSpent)
		}
		if r.RemainingBudget != budget-r.TotalSpent {
			t.Fatalf("RemainingBudget = %d, want %d", r.RemainingBudget, budget-r.TotalSpent)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := map[string]int{
		"2024-02-10": 29,
		"2025-02-10": 28,
		"2025-04-30": 30,
		"2025-12-01": 31,
	}
	for date, want := range tests {
		if got := DaysInMonth(day(t, date)); got != want {
			t.Errorf("DaysInMonth(%s) = %d, want %d", date, got, want)
		}
	}
}

func TestReportLines(t *testing.T) {
	r := Report{
		ByCategory: []CategoryTotal{
			{Category: api.CategoryFood, Amount: 2000},
			{Category: api.CategoryFun, Amount: 300},
		},
		TotalSpent:      2300,
		RemainingBudget: 7700,
		RemainingDays:   11,
		DailyAllowance:  700,
	}

	want := []string{
		"Expenses by category:",
		"  food: 2,000",
		"  fun: 300",
		"you have spent 2,300 this month!",
		"your remaining budget is 7,700",
		"remaining days in the current month: 11",
		"your budget per day: 700",
	}
	if got := r.Lines(format.Default()); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}
