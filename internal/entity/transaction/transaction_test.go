package transaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_CreatedAtDateFormat_ShouldUseDayMonthYear(t *testing.T) {
	created := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)
	tx := Transaction{CreatedAt: created.UnixMilli()}

	assert.Equal(t, "01 Jan 2024", tx.CreatedAtDateFormat(time.UTC))
	assert.Equal(t, "01 Jan 2024", tx.CreatedAtDateFormat(nil))
}

func Test_ParsedDate(t *testing.T) {
	d, ok := Transaction{Date: "15/08/2023"}.ParsedDate(time.UTC)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, time.August, 15, 0, 0, 0, 0, time.UTC), d)

	_, ok = Transaction{Date: "2023-08-15"}.ParsedDate(time.UTC)
	assert.False(t, ok)
}

func Test_Vocabulary(t *testing.T) {
	assert.True(t, IsKnownType("Expense"))
	assert.False(t, IsKnownType("expense"))
	assert.True(t, IsKnownTag("Saving & Debts"))
	assert.False(t, IsKnownTag("Crypto"))
}
