package transaction

import "max.ks1230/moneyezy-bot/internal/utils"

const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

var Types = []string{TypeIncome, TypeExpense}

var Tags = []string{
	"Housing",
	"Transportation",
	"Food",
	"Utilities",
	"Insurance",
	"Healthcare",
	"Saving & Debts",
	"Personal Spending",
	"Entertainment",
	"Miscellaneous",
}

func IsKnownType(t string) bool {
	return utils.Contains(Types, t)
}

func IsKnownTag(tag string) bool {
	return utils.Contains(Tags, tag)
}
