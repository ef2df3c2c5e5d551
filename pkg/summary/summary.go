// Package summary aggregates the expense log against the monthly budget.
package summary

import (
	"fmt"
	"time"

	"github.com/ArionMiles/voxpense/pkg/api"
	"github.com/ArionMiles/voxpense/pkg/format"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category api.Category
	Amount   int64
}

// Report is the result of summarizing the expense log.
type Report struct {
	// ByCategory lists totals in order of each category's first appearance.
	ByCategory []CategoryTotal
	TotalSpent int64
	Budget     int64
	// RemainingBudget is Budget - TotalSpent and may be negative.
	RemainingBudget int64
	// RemainingDays is the number of days left in the month after today.
	RemainingDays int
	// DailyAllowance is floor(RemainingBudget / RemainingDays), or
	// RemainingBudget on the last day of the month.
	DailyAllowance int64
}

// Summarize computes the report for expenses against budget as of now.
func Summarize(expenses []api.Expense, budget int64, now time.Time) Report {
	r := Report{Budget: budget}

	index := make(map[api.Category]int)
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(r.ByCategory)
			index[e.Category] = i
			r.ByCategory = append(r.ByCategory, CategoryTotal{Category: e.Category})
		}
		r.ByCategory[i].Amount += e.Amount
		r.TotalSpent += e.Amount
	}

	r.RemainingBudget = budget - r.TotalSpent
	r.RemainingDays = RemainingDays(now)

	if r.RemainingDays == 0 {
		r.DailyAllowance = r.RemainingBudget
	} else {
		r.DailyAllowance = floorDiv(r.RemainingBudget, int64(r.RemainingDays))
	}

	return r
}

// RemainingDays returns the days in now's month minus now's day of month.
func RemainingDays(now time.Time) int {
	return DaysInMonth(now) - now.Day()
}

// DaysInMonth returns the number of days in now's calendar month.
func DaysInMonth(now time.Time) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
}

// Lines renders the report as the sequence of sentences spoken to the user.
func (r Report) Lines(f *format.Formatter) []string {
	lines := make([]string, 0, len(r.ByCategory)+5)
	lines = append(lines, "Expenses by category:")
	for _, c := range r.ByCategory {
		lines = append(lines, fmt.Sprintf("  %s: %s", c.Category, f.Amount(c.Amount)))
	}
	lines = append(lines,
		fmt.Sprintf("you have spent %s this month!", f.Amount(r.TotalSpent)),
		fmt.Sprintf("your remaining budget is %s", f.Amount(r.RemainingBudget)),
		fmt.Sprintf("remaining days in the current month: %d", r.RemainingDays),
		fmt.Sprintf("your budget per day: %s", f.Amount(r.DailyAllowance)),
	)
	return lines
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
