package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
)

const (
	PeriodAll   = ""
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

var periodStarts = map[string]func(n *now.Now) time.Time{
	PeriodAll:   func(*now.Now) time.Time { return time.Time{} },
	PeriodWeek:  func(n *now.Now) time.Time { return n.BeginningOfWeek() },
	PeriodMonth: func(n *now.Now) time.Time { return n.BeginningOfMonth() },
	PeriodYear:  func(n *now.Now) time.Time { return n.BeginningOfYear() },
}

var ErrUnknownPeriod = errors.New("unknown period")

// PeriodStart is where period begins relative to ref, weeks starting on Monday.
func PeriodStart(period string, ref time.Time) (time.Time, error) {
	start, ok := periodStarts[period]
	if !ok {
		return time.Time{}, errors.Wrapf(ErrUnknownPeriod, "%q", period)
	}
	cfg := &now.Config{WeekStartDay: time.Monday}
	return start(cfg.With(ref)), nil
}

func Periods() []string {
	return []string{PeriodWeek, PeriodMonth, PeriodYear}
}

// FilterSince keeps transactions dated on or after since. A malformed Date
// falls back to the creation time.
func FilterSince(txs []transaction.Transaction, since time.Time) []transaction.Transaction {
	res := make([]transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		when, ok := tx.ParsedDate(since.Location())
		if !ok {
			when = tx.CreatedTime()
		}
		if !when.Before(since) {
			res = append(res, tx)
		}
	}
	return res
}

type Record struct {
	Tag    string
	Amount float64
}

type Summary struct {
	Expenses []Record
	Income   float64
	Expense  float64
	Count    int
}

func (s Summary) Balance() float64 {
	return s.Income - s.Expense
}

// Summarize totals income and expense and groups expenses by tag, biggest first.
func Summarize(txs []transaction.Transaction) Summary {
	byTag := make(map[string]float64)
	var res Summary
	for _, tx := range txs {
		res.Count++
		if tx.IsIncome() {
			res.Income += tx.Amount
			continue
		}
		res.Expense += tx.Amount
		byTag[tx.Tag] += tx.Amount
	}

	res.Expenses = make([]Record, 0, len(byTag))
	for tag, am := range byTag {
		res.Expenses = append(res.Expenses, Record{Tag: tag, Amount: am})
	}
	sort.Slice(res.Expenses, func(i, j int) bool {
		if res.Expenses[i].Amount != res.Expenses[j].Amount {
			return res.Expenses[i].Amount > res.Expenses[j].Amount
		}
		return res.Expenses[i].Tag < res.Expenses[j].Tag
	})
	return res
}

func FormatSummary(s Summary, formatAmount func(float64) string) string {
	lines := make([]string, 0, len(s.Expenses)+5)
	for _, rec := range s.Expenses {
		lines = append(lines, fmt.Sprintf("%s: %s", rec.Tag, formatAmount(rec.Amount)))
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines,
		fmt.Sprintf("Income: %s", formatAmount(s.Income)),
		fmt.Sprintf("Expense: %s", formatAmount(s.Expense)),
		fmt.Sprintf("Balance: %s", formatAmount(s.Balance())),
	)
	return strings.Join(lines, "\n")
}
