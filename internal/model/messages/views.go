package messages

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/entity/permission"
	"max.ks1230/moneyezy-bot/internal/logger"
	"max.ks1230/moneyezy-bot/internal/model/screens"
)

const (
	detailEditData       = "detail:edit"
	detailDeleteData     = "detail:delete"
	detailShareTextData  = "detail:share_text"
	detailShareImageData = "detail:share_image"
	editTypeData         = "edit:type:"
	editTagData          = "edit:tag:"
	editDateTodayData    = "edit:date:today"
	editSaveData         = "edit:save"
	editCancelData       = "edit:cancel"
	permAllowData        = "perm:allow"
	permDenyData         = "perm:deny"
)

const (
	permissionPrompt  = "Moneyezy needs permission to save images to your shared storage (%s). Allow it?"
	imageSendFailed   = "Could not send the image, try again later"
	formHint          = "Change a field with /set <field> <value>, then /save. /back to cancel."
	tagButtonsPerLine = 2
)

// botView draws screens into one chat. Telegram has no toasts or dialogs, so
// both become plain messages.
type botView struct {
	userID int64
	sender messageSender
	media  mediaStore
}

func (v *botView) send(text string) {
	if err := v.sender.SendMessage(text, v.userID); err != nil {
		logger.Error("cannot send message", zap.Int64("user", v.userID), zap.Error(err))
	}
}

func (v *botView) sendButtons(text string, rows [][]Button) {
	if err := v.sender.SendButtons(text, rows, v.userID); err != nil {
		logger.Error("cannot send buttons", zap.Int64("user", v.userID), zap.Error(err))
	}
}

func (v *botView) Toast(msg string) {
	v.send(msg)
}

func (v *botView) ShowDetails(f screens.DetailFields) {
	text := strings.Join([]string{
		"🧾 " + f.Title,
		"Amount: " + f.Amount,
		"Transaction Type: " + f.Type,
		"Tag: " + f.Tag,
		"Date: " + f.Date,
		"Note: " + f.Note,
		"Created At: " + f.CreatedAt,
	}, "\n")

	v.sendButtons(text, [][]Button{
		{{Text: "✏️ Edit", Data: detailEditData}, {Text: "🗑 Delete", Data: detailDeleteData}},
		{{Text: "📝 Share as text", Data: detailShareTextData}, {Text: "🖼 Share as image", Data: detailShareImageData}},
	})
}

func (v *botView) ShowErrorDialog(title, message string) {
	v.send("⚠️ " + title + "\n" + message)
}

func (v *botView) RequestPermission(perm permission.Permission) {
	v.sendButtons(fmt.Sprintf(permissionPrompt, perm), [][]Button{
		{{Text: "Allow", Data: permAllowData}, {Text: "Deny", Data: permDenyData}},
	})
}

// Share hands text back as a message the user can forward, and images as a photo.
func (v *botView) Share(content screens.ShareContent) {
	switch content.MIMEType {
	case screens.MIMEText:
		v.send(content.Text)
	case screens.MIMEImage:
		data, err := v.media.Read(content.Path)
		if err != nil {
			logger.Error("cannot read shared image", zap.String("path", content.Path), zap.Error(err))
			v.send(imageSendFailed)
			return
		}
		if err = v.sender.SendPhoto(filepath.Base(content.Path), data, content.Caption, v.userID); err != nil {
			logger.Error("cannot send photo", zap.Int64("user", v.userID), zap.Error(err))
			v.send(imageSendFailed)
		}
	default:
		logger.Warn("unsupported share type", zap.String("mime", content.MIMEType))
	}
}

func (v *botView) ShowForm(form screens.Form, types, tags []string) {
	lines := []string{"✏️ Editing transaction", ""}
	for _, field := range screens.FormFields {
		lines = append(lines, fmt.Sprintf("%s: %s", field, form.Get(field)))
	}
	lines = append(lines, "", formHint)

	rows := make([][]Button, 0, len(tags)/tagButtonsPerLine+3)

	typeRow := make([]Button, 0, len(types))
	for i, t := range types {
		typeRow = append(typeRow, Button{Text: t, Data: editTypeData + strconv.Itoa(i)})
	}
	rows = append(rows, typeRow)

	for i := 0; i < len(tags); i += tagButtonsPerLine {
		row := make([]Button, 0, tagButtonsPerLine)
		for j := i; j < i+tagButtonsPerLine && j < len(tags); j++ {
			row = append(row, Button{Text: tags[j], Data: editTagData + strconv.Itoa(j)})
		}
		rows = append(rows, row)
	}

	rows = append(rows, []Button{
		{Text: "📅 Today", Data: editDateTodayData},
		{Text: "💾 Save", Data: editSaveData},
		{Text: "Cancel", Data: editCancelData},
	})

	v.sendButtons(strings.Join(lines, "\n"), rows)
}

func (v *botView) ShowFieldError(field screens.Field, message string) {
	v.send(fmt.Sprintf("❌ %s: %s", field, message))
}
