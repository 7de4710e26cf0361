package domain

import "time"

// FilteredBudget is the projection the dashboard renders: the budget
// itself plus the subset of expenses that fall inside the active date
// range. When the filter is inactive FilteredExpenses carries the full
// expense list.
type FilteredBudget struct {
	Budget
	FilteredExpenses []Expense `json:"filteredExpenses"`
}

// truncateToDay drops the time-of-day component of t in the given location.
func truncateToDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// FilterExpensesByDate derives the dashboard projection from the ledger
// mirror. It is a pure function: the input budgets are deep-copied and
// never mutated, and calling it twice with the same arguments yields
// the same result.
//
// When active is false, or either bound is zero, every budget's
// FilteredExpenses is simply its full expense list. When active, an
// expense is kept when its date, truncated to a calendar day in loc,
// falls within [start's day, end's day] inclusive — the same day-level
// comparison as [start 00:00:00, end 23:59:59.999].
func FilterExpensesByDate(budgets []Budget, active bool, start, end time.Time, loc *time.Location) []FilteredBudget {
	if loc == nil {
		loc = time.Local
	}

	out := make([]FilteredBudget, len(budgets))

	if !active || start.IsZero() || end.IsZero() {
		for i, b := range budgets {
			clone := b.Clone()
			out[i] = FilteredBudget{Budget: clone, FilteredExpenses: clone.Expenses}
		}
		return out
	}

	startDay := truncateToDay(start, loc)
	endDay := truncateToDay(end, loc)

	for i, b := range budgets {
		clone := b.Clone()
		filtered := make([]Expense, 0, len(clone.Expenses))
		for _, e := range clone.Expenses {
			day := truncateToDay(e.Date, loc)
			if !day.Before(startDay) && !day.After(endDay) {
				filtered = append(filtered, e)
			}
		}
		out[i] = FilteredBudget{Budget: clone, FilteredExpenses: filtered}
	}
	return out
}
