package messages

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/customerr"
	"max.ks1230/moneyezy-bot/internal/entity/event"
	"max.ks1230/moneyezy-bot/internal/entity/permission"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
	"max.ks1230/moneyezy-bot/internal/logger"
	"max.ks1230/moneyezy-bot/internal/model/format"
	"max.ks1230/moneyezy-bot/internal/model/prefs"
	"max.ks1230/moneyezy-bot/internal/model/render"
	"max.ks1230/moneyezy-bot/internal/model/reports"
	"max.ks1230/moneyezy-bot/internal/model/screens"
)

const (
	dontUnderstandMessage = "I don't understand you :("
	helloMessage          = "Hello! I am Moneyezy bot 💰"
	loveToTalkMessage     = "I would love to talk about it more! Try /help"
	helpMessage           = `/add title | amount | type | tag | dd/mm/yyyy | note - record a transaction
/list [week|month|year] - your transactions
/summary [week|month|year] - totals by tag
/show <id> - open a transaction
/edit, /delete, /share_text, /share_image - act on the open transaction
/set <field> <value>, /save, /back - edit the open transaction
/theme [dark|light] - switch the display mode`

	addUsageMessage        = "Usage: /add title | amount | type | tag | dd/mm/yyyy | note"
	savedMessage           = "Saved transaction #%d. Open it with /show %d"
	noTransactionsMessage  = "You have no transactions yet"
	incorrectPeriodMessage = "The period should be one of: week, month, year"
	incorrectIDMessage     = "The transaction id should be a positive number"
	cannotGetMessage       = "Can't get your transactions atm. Try later"
	cannotSaveMessage      = "Can't save your transaction atm. Try later"
	openFirstMessage       = "Open a transaction first with /show <id>"
	notEditingMessage      = "Nothing is being edited. Open a transaction and press Edit"
	unknownFieldMessage    = "Unknown field. Use one of: title, amount, type, tag, date, note"
	setUsageMessage        = "Usage: /set <field> <value>"
	deletedMessage         = "Transaction deleted"
	closedMessage          = "Use /list to see your transactions"
	themeUsageMessage      = "Usage: /theme [dark|light]"
	cannotSaveThemeMessage = "Can't save the display mode atm. Try later"
	darkModeMessage        = "Dark mode on 🌙"
	lightModeMessage       = "Light mode on ☀️"
)

const (
	startCommand      = "/start"
	helpCommand       = "/help"
	addCommand        = "/add"
	listCommand       = "/list"
	summaryCommand    = "/summary"
	showCommand       = "/show"
	editCommand       = "/edit"
	setCommand        = "/set"
	saveCommand       = "/save"
	backCommand       = "/back"
	deleteCommand     = "/delete"
	shareTextCommand  = "/share_text"
	shareImageCommand = "/share_image"
	themeCommand      = "/theme"
)

const addParts = 6

// Storage keeps transactions and permission grants.
type Storage interface {
	GetTransaction(ctx context.Context, userID, id int64) (transaction.Transaction, error)
	GetUserTransactions(ctx context.Context, userID int64) ([]transaction.Transaction, error)
	SaveTransaction(ctx context.Context, tx transaction.Transaction) (transaction.Transaction, error)
	UpdateTransaction(ctx context.Context, tx transaction.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
	IsGranted(ctx context.Context, userID int64, perm permission.Permission) (bool, error)
	SetGranted(ctx context.Context, userID int64, perm permission.Permission, granted bool) error
}

type uiModeRegistry interface {
	ForUser(userID int64) *prefs.UIModeStore
}

type mediaStore interface {
	Save(name string, data []byte) (string, error)
	Read(path string) ([]byte, error)
}

type cardRenderer interface {
	Render(in render.CardInput) ([]byte, error)
}

type eventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev event.TransactionEvent) error
}

type cardCache interface {
	InvalidateCards(userID, transactionID int64) error
}

type config interface {
	Location() *time.Location
	PreserveCreatedAt() bool
}

type Deps struct {
	Sender   messageSender
	Storage  Storage
	UIModes  uiModeRegistry
	Media    mediaStore
	Renderer cardRenderer
	Config   config

	// Publisher and CardCache may be left nil.
	Publisher eventPublisher
	CardCache cardCache
	// Now defaults to time.Now.
	Now func() time.Time
}

type handler func(ctx context.Context, arg string, userID int64) (string, error)

type handlerMap map[string]handler

type HandlerService struct {
	handlersMap handlerMap
	sessions    *sessions
}

func newHandler(ctx context.Context, deps Deps) *HandlerService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	res := &HandlerService{
		handlersMap: nil,
		sessions:    newSessions(ctx, &deps),
	}
	res.handlersMap = newMap(res)
	return res
}

func (s *HandlerService) HandleMessage(ctx context.Context, text string, userID int64) (string, error) {
	cmd, arg := parseCommand(text)

	handler, ok := s.handlersMap[cmd]
	if ok {
		countCommand(cmd)
		return handler(ctx, arg, userID)
	}
	countCommand("unknown")
	return dontUnderstandMessage, nil
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[helpCommand] = s.handleHelp
	m[addCommand] = s.handleAdd
	m[listCommand] = s.handleList
	m[summaryCommand] = s.handleSummary
	m[showCommand] = s.handleShow
	m[editCommand] = s.handleEdit
	m[setCommand] = s.handleSet
	m[saveCommand] = s.handleSave
	m[backCommand] = s.handleBack
	m[deleteCommand] = s.handleDelete
	m[shareTextCommand] = s.handleShareText
	m[shareImageCommand] = s.handleShareImage
	m[themeCommand] = s.handleTheme

	m[""] = s.handleNoCommand

	return m
}

// callbackCommand maps button data onto the command it stands for.
func (s *HandlerService) callbackCommand(data string) (string, bool) {
	switch data {
	case detailEditData:
		return editCommand, true
	case detailDeleteData:
		return deleteCommand, true
	case detailShareTextData:
		return shareTextCommand, true
	case detailShareImageData:
		return shareImageCommand, true
	case editDateTodayData:
		return setCommand + " date today", true
	case editSaveData:
		return saveCommand, true
	case editCancelData:
		return backCommand, true
	}

	if v, ok := suggestionAt(data, editTypeData, transaction.Types); ok {
		return setCommand + " type " + v, true
	}
	if v, ok := suggestionAt(data, editTagData, transaction.Tags); ok {
		return setCommand + " tag " + v, true
	}
	return "", false
}

// HandlePermission delivers the answer to a storage permission prompt to the open detail screen.
func (s *HandlerService) HandlePermission(ctx context.Context, data string, userID int64) error {
	var granted bool
	switch data {
	case permAllowData:
		granted = true
	case permDenyData:
	default:
		logger.Warn("unknown callback", zap.String("data", data), zap.Int64("user", userID))
		return nil
	}

	sess := s.sessions.get(userID)
	if granted {
		if err := sess.deps.Storage.SetGranted(ctx, userID, permission.StorageWrite, true); err != nil {
			logger.Error("cannot store permission", zap.Int64("user", userID), zap.Error(err))
		}
	}

	c, ok := sess.detail()
	if !ok {
		return nil
	}
	c.OnPermissionResult(ctx, granted)
	return nil
}

func (s *HandlerService) handleStart(_ context.Context, _ string, _ int64) (string, error) {
	return helloMessage + "\n\n" + helpMessage, nil
}

func (s *HandlerService) handleHelp(_ context.Context, _ string, _ int64) (string, error) {
	return helpMessage, nil
}

func (s *HandlerService) handleNoCommand(_ context.Context, _ string, _ int64) (string, error) {
	return loveToTalkMessage, nil
}

func (s *HandlerService) handleAdd(ctx context.Context, arg string, userID int64) (string, error) {
	parts := strings.Split(arg, "|")
	if len(parts) != addParts {
		return addUsageMessage, nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	form := screens.Form{
		Title:           parts[0],
		Amount:          parts[1],
		TransactionType: canonical(transaction.Types, parts[2]),
		Tag:             canonical(transaction.Tags, parts[3]),
		Date:            parts[4],
		Note:            parts[5],
	}
	if verr := form.Validate(); verr != nil {
		return verr.Message, nil
	}
	amount, err := screens.ParseAmount(form.Amount)
	if err != nil {
		return addUsageMessage, nil
	}

	sess := s.sessions.get(userID)
	saved, err := sess.vm.AddTransaction(ctx, transaction.Transaction{
		Title:           form.Title,
		Amount:          amount,
		TransactionType: form.TransactionType,
		Tag:             form.Tag,
		Date:            form.Date,
		Note:            form.Note,
	})
	if err != nil {
		return cannotSaveMessage, errors.Wrap(err, "handle add")
	}
	return fmt.Sprintf(savedMessage, saved.ID, saved.ID), nil
}

func (s *HandlerService) periodTransactions(ctx context.Context, arg string, userID int64) ([]transaction.Transaction, string, error) {
	sess := s.sessions.get(userID)

	since, err := reports.PeriodStart(strings.ToLower(strings.TrimSpace(arg)), sess.now())
	if err != nil {
		return nil, incorrectPeriodMessage, nil
	}

	txs, err := sess.vm.ListTransactions(ctx)
	if err != nil {
		return nil, cannotGetMessage, errors.Wrap(err, "period transactions")
	}

	txs = reports.FilterSince(txs, since)
	if len(txs) == 0 {
		return nil, noTransactionsMessage, nil
	}
	return txs, "", nil
}

func (s *HandlerService) handleList(ctx context.Context, arg string, userID int64) (string, error) {
	txs, msg, err := s.periodTransactions(ctx, arg, userID)
	if txs == nil {
		return msg, errors.Wrap(err, "handle list")
	}
	return formatList(txs), nil
}

func (s *HandlerService) handleSummary(ctx context.Context, arg string, userID int64) (string, error) {
	txs, msg, err := s.periodTransactions(ctx, arg, userID)
	if txs == nil {
		return msg, errors.Wrap(err, "handle summary")
	}
	return reports.FormatSummary(reports.Summarize(txs), format.IndianRupee), nil
}

func (s *HandlerService) handleShow(_ context.Context, arg string, userID int64) (string, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return incorrectIDMessage, nil
	}
	s.sessions.get(userID).showDetail(id)
	return "", nil
}

func (s *HandlerService) handleEdit(_ context.Context, _ string, userID int64) (string, error) {
	c, ok := s.sessions.get(userID).detail()
	if !ok {
		return openFirstMessage, nil
	}
	c.Edit()
	return "", nil
}

func (s *HandlerService) handleSet(_ context.Context, arg string, userID int64) (string, error) {
	sess := s.sessions.get(userID)
	c, ok := sess.edit()
	if !ok {
		return notEditingMessage, nil
	}

	name, value := splitArg(arg)
	if name == "" {
		return setUsageMessage, nil
	}
	field, err := screens.ParseField(name)
	if err != nil {
		return unknownFieldMessage, nil
	}

	switch field {
	case screens.FieldDate:
		switch strings.ToLower(value) {
		case "today":
			c.PickDate(sess.now())
			return "", nil
		case "yesterday":
			c.PickDate(sess.now().AddDate(0, 0, -1))
			return "", nil
		}
	case screens.FieldType:
		value = canonical(transaction.Types, value)
	case screens.FieldTag:
		value = canonical(transaction.Tags, value)
	}

	c.SetField(field, value)
	return "", nil
}

func (s *HandlerService) handleSave(ctx context.Context, _ string, userID int64) (string, error) {
	c, ok := s.sessions.get(userID).edit()
	if !ok {
		return notEditingMessage, nil
	}

	err := c.Save(ctx)
	var verr *customerr.ValidationError
	if errors.As(err, &verr) {
		return "", nil
	}
	return "", errors.Wrap(err, "handle save")
}

func (s *HandlerService) handleBack(_ context.Context, _ string, userID int64) (string, error) {
	sess := s.sessions.get(userID)
	if sess.host.Depth() == 0 {
		return closedMessage, nil
	}
	sess.host.Back()
	if sess.host.Depth() == 0 {
		return closedMessage, nil
	}
	return "", nil
}

func (s *HandlerService) handleDelete(ctx context.Context, _ string, userID int64) (string, error) {
	c, ok := s.sessions.get(userID).detail()
	if !ok {
		return openFirstMessage, nil
	}
	if err := c.Delete(ctx); err != nil {
		return "", errors.Wrap(err, "handle delete")
	}
	return deletedMessage, nil
}

func (s *HandlerService) handleShareText(_ context.Context, _ string, userID int64) (string, error) {
	c, ok := s.sessions.get(userID).detail()
	if !ok {
		return openFirstMessage, nil
	}
	c.ShareText()
	return "", nil
}

func (s *HandlerService) handleShareImage(ctx context.Context, _ string, userID int64) (string, error) {
	c, ok := s.sessions.get(userID).detail()
	if !ok {
		return openFirstMessage, nil
	}
	c.ShareImage(ctx)
	return "", nil
}

func (s *HandlerService) handleTheme(ctx context.Context, arg string, userID int64) (string, error) {
	store := s.sessions.get(userID).uiMode

	var dark bool
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "dark":
		dark = true
	case "light":
	case "":
		cur, err := store.Current(ctx)
		if err != nil {
			return cannotSaveThemeMessage, errors.Wrap(err, "handle theme")
		}
		dark = !cur
	default:
		return themeUsageMessage, nil
	}

	if err := store.SaveToDataStore(ctx, dark); err != nil {
		return cannotSaveThemeMessage, errors.Wrap(err, "handle theme")
	}
	if dark {
		return darkModeMessage, nil
	}
	return lightModeMessage, nil
}
