package messages

import (
	"fmt"
	"strconv"
	"strings"

	"max.ks1230/moneyezy-bot/internal/entity/transaction"
	"max.ks1230/moneyezy-bot/internal/model/format"
)

const commandParts = 2

// parseCommand splits "/cmd@bot arg..." into "/cmd" and the rest.
func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	split := strings.SplitN(text, " ", commandParts)

	if !strings.HasPrefix(text, "/") {
		return "", text
	}

	cmd = split[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	if len(split) == commandParts {
		arg = strings.TrimSpace(split[1])
	}
	return cmd, arg
}

func splitArg(arg string) (head, rest string) {
	split := strings.SplitN(strings.TrimSpace(arg), " ", commandParts)
	if len(split) == commandParts {
		return split[0], strings.TrimSpace(split[1])
	}
	return split[0], ""
}

// canonical returns the vocabulary spelling of v, or v itself if it is not in vocab.
func canonical(vocab []string, v string) string {
	v = strings.TrimSpace(v)
	for _, known := range vocab {
		if strings.EqualFold(known, v) {
			return known
		}
	}
	return v
}

func suggestionAt(data, prefix string, vocab []string) (string, bool) {
	if !strings.HasPrefix(data, prefix) {
		return "", false
	}
	i, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil || i < 0 || i >= len(vocab) {
		return "", false
	}
	return vocab[i], true
}

func formatList(txs []transaction.Transaction) string {
	lines := make([]string, 0, len(txs))
	for _, tx := range txs {
		sign := "-"
		if tx.IsIncome() {
			sign = "+"
		}
		lines = append(lines, fmt.Sprintf("#%d %s %s %s%s (%s)",
			tx.ID, tx.Date, tx.Title, sign, format.IndianRupee(tx.Amount), tx.Tag))
	}
	return strings.Join(lines, "\n")
}
