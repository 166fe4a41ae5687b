// Package clientstate holds the client's view state. Every user action is a
// method returning the next State; the receiver is never modified.
package clientstate

import (
	"slices"
	"time"

	"github.com/carson-networks/expense-server/internal/client"
	"github.com/carson-networks/expense-server/internal/rates"
	"github.com/carson-networks/expense-server/internal/summary"
)

const (
	OtherCategory = "Other"

	LoadErrorMessage = "Failed to load expenses"
)

// Categories are the predefined choices. Anything else is a custom category
// entered alongside OtherCategory.
var Categories = []string{"Food", "Travel", "Bills", "Shopping", "Entertainment", OtherCategory}

type Filters struct {
	Category  string
	StartDate string
	EndDate   string
}

// Form is the add/edit form. CustomCategory only applies while Category is OtherCategory.
type Form struct {
	ID             string
	Amount         string
	Date           string
	Note           string
	Currency       string
	Category       string
	CustomCategory string
}

// ResolvedCategory is the category to submit: the custom text when "Other" is
// selected, otherwise the chosen category.
func (f Form) ResolvedCategory() string {
	if f.Category == OtherCategory {
		return f.CustomCategory
	}
	return f.Category
}

// NewForm returns an empty form with the default currency and category.
func NewForm() Form {
	return Form{Currency: "₹", Category: OtherCategory}
}

type State struct {
	Filters Filters
	Page    int

	Records []client.Expense
	Meta    client.Meta
	Loading bool
	Error   string

	Rates   rates.Table
	Warning string

	SummaryMonth string
	Editing      *Form
}

func New() State {
	return State{Page: 1}
}

// SetFilters replaces the filters and returns to the first page.
func (s State) SetFilters(filters Filters) State {
	s.Filters = filters
	s.Page = 1
	return s
}

func (s State) GoToPage(page int) State {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// Query is the list request for the current filters and page.
func (s State) Query() client.ListQuery {
	return client.ListQuery{
		Category:  s.Filters.Category,
		StartDate: s.Filters.StartDate,
		EndDate:   s.Filters.EndDate,
		Page:      s.Page,
	}
}

func (s State) LoadStarted() State {
	s.Loading = true
	s.Error = ""
	return s
}

func (s State) LoadSucceeded(page client.Page) State {
	s.Records = slices.Clone(page.Data)
	s.Meta = page.Meta
	s.Loading = false
	s.Error = ""
	if s.SummaryMonth != "" && !slices.Contains(s.Months(), s.SummaryMonth) {
		s.SummaryMonth = ""
	}
	return s
}

// LoadFailed keeps the previously loaded records on screen.
func (s State) LoadFailed() State {
	s.Loading = false
	s.Error = LoadErrorMessage
	return s
}

// RatesLoaded installs a rate table. A fallback result sets the warning but
// leaves records untouched.
func (s State) RatesLoaded(result rates.Result) State {
	s.Rates = result.Table
	s.Warning = result.Warning
	return s
}

// SelectSummaryMonth restricts the summary to month; "" means all months.
func (s State) SelectSummaryMonth(month string) State {
	s.SummaryMonth = month
	return s
}

// BeginEdit fills the edit form from e, splitting unknown categories into the custom field.
func (s State) BeginEdit(e client.Expense) State {
	form := Form{
		ID:       e.ID,
		Amount:   e.Amount.String(),
		Date:     e.Date,
		Note:     e.Note,
		Currency: e.Currency,
	}
	if slices.Contains(Categories, e.Category) {
		form.Category = e.Category
	} else {
		form.Category = OtherCategory
		form.CustomCategory = e.Category
	}
	s.Editing = &form
	return s
}

// SetEditCategory selects category. Any choice but OtherCategory clears the custom text.
func (s State) SetEditCategory(category string) State {
	if s.Editing == nil {
		return s
	}
	form := *s.Editing
	form.Category = category
	if category != OtherCategory {
		form.CustomCategory = ""
	}
	s.Editing = &form
	return s
}

// SetEditCustomCategory only applies while OtherCategory is selected.
func (s State) SetEditCustomCategory(text string) State {
	if s.Editing == nil || s.Editing.Category != OtherCategory {
		return s
	}
	form := *s.Editing
	form.CustomCategory = text
	s.Editing = &form
	return s
}

func (s State) CancelEdit() State {
	s.Editing = nil
	return s
}

// Summary aggregates the loaded records with the current rates and month.
func (s State) Summary() summary.Summary {
	return summary.Aggregate(s.summaryRecords(), s.Rates, s.SummaryMonth)
}

// Months lists the months available for the summary month selector.
func (s State) Months() []string {
	return summary.AvailableMonths(s.summaryRecords())
}

func (s State) summaryRecords() []summary.Record {
	return Records(s.Records)
}

// Records converts API expenses for aggregation, skipping undated ones.
func Records(expenses []client.Expense) []summary.Record {
	records := make([]summary.Record, 0, len(expenses))
	for _, e := range expenses {
		date, err := time.Parse(time.DateOnly, e.Date)
		if err != nil {
			continue
		}
		records = append(records, summary.Record{
			Amount:   e.Amount,
			Currency: e.Currency,
			Category: e.Category,
			Date:     date,
		})
	}
	return records
}
