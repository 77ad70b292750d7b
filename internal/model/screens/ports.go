// Package screens holds the transaction detail and edit controllers. They bind
// the per-user view-model to an abstract view and never touch the transport.
package screens

import (
	"context"

	"max.ks1230/moneyezy-bot/internal/entity/permission"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
	"max.ks1230/moneyezy-bot/internal/model/render"
	"max.ks1230/moneyezy-bot/internal/model/viewmodel"
)

const (
	MIMEText  = "text/plain"
	MIMEImage = "image/png"
)

// Navigator moves away from the current screen.
type Navigator interface {
	NavigateUp()
	ToEdit(tx transaction.Transaction)
}

// ShareContent is handed to the share sheet: inline text or a saved file.
type ShareContent struct {
	MIMEType string
	Text     string
	Path     string
	Caption  string
}

type Toaster interface {
	Toast(msg string)
}

type DetailView interface {
	Toaster
	ShowDetails(fields DetailFields)
	ShowErrorDialog(title, message string)
	RequestPermission(perm permission.Permission)
	Share(content ShareContent)
}

type EditView interface {
	Toaster
	ShowForm(form Form, types, tags []string)
	ShowFieldError(field Field, message string)
}

type detailViewModel interface {
	UserID() int64
	DetailState(ctx context.Context) <-chan viewmodel.DetailState
	GetByID(ctx context.Context, id int64)
	DeleteByID(ctx context.Context, id int64) error
}

type editViewModel interface {
	UpdateTransaction(ctx context.Context, tx transaction.Transaction) error
}

type uiModeSource interface {
	UIMode(ctx context.Context) <-chan bool
}

type permissionChecker interface {
	IsGranted(ctx context.Context, userID int64, perm permission.Permission) (bool, error)
}

type cardRenderer interface {
	Render(in render.CardInput) ([]byte, error)
}

type imageSaver interface {
	Save(name string, data []byte) (string, error)
}
