package screens

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/entity/permission"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
	"max.ks1230/moneyezy-bot/internal/logger"
	"max.ks1230/moneyezy-bot/internal/model/format"
	"max.ks1230/moneyezy-bot/internal/model/render"
	"max.ks1230/moneyezy-bot/internal/model/viewmodel"
)

const (
	loadFailedMessage    = "Something went wrong while loading this transaction"
	deleteFailedMessage  = "Could not delete the transaction, try again later"
	nothingToShare       = "Nothing to share yet"
	stillLoading         = "The transaction is still loading"
	imageFailedMessage   = "Error occurred!"
	permissionDialogHead = "Image share failed!"
	permissionDialogBody = "You have to enable storage permission to share transaction as Image"
)

type DetailDeps struct {
	ViewModel   detailViewModel
	View        DetailView
	Navigator   Navigator
	UIMode      uiModeSource
	Permissions permissionChecker
	Renderer    cardRenderer
	Saver       imageSaver
	Location    *time.Location
	// FormatAmount defaults to format.IndianRupee.
	FormatAmount func(float64) string
}

// DetailController shows one transaction. It holds no state of its own beyond
// what is currently on screen.
type DetailController struct {
	id int64
	DetailDeps

	mu                 sync.Mutex
	record             *transaction.Transaction
	fields             *DetailFields
	dark               bool
	left               bool
	awaitingPermission bool
}

func NewDetailController(id int64, deps DetailDeps) *DetailController {
	if deps.FormatAmount == nil {
		deps.FormatAmount = format.IndianRupee
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &DetailController{id: id, DetailDeps: deps}
}

func (c *DetailController) TransactionID() int64 {
	return c.id
}

// Open fetches the record and renders every state the view-model emits until ctx ends.
func (c *DetailController) Open(ctx context.Context) {
	c.mu.Lock()
	c.left = false
	c.mu.Unlock()

	c.ViewModel.GetByID(ctx, c.id)

	states := c.ViewModel.DetailState(ctx)
	go func() {
		for st := range states {
			c.dispatch(st)
		}
	}()

	if c.UIMode != nil {
		modes := c.UIMode.UIMode(ctx)
		go func() {
			for dark := range modes {
				c.mu.Lock()
				c.dark = dark
				c.mu.Unlock()
			}
		}()
	}
}

func (c *DetailController) dispatch(st viewmodel.DetailState) {
	switch st.Kind {
	case viewmodel.StateLoading:
		// placeholder, nothing to render yet
	case viewmodel.StateSuccess:
		c.onDetailsLoaded(st.Transaction)
	case viewmodel.StateError:
		c.View.Toast(loadFailedMessage)
	case viewmodel.StateEmpty:
		c.navigateUp()
	}
}

func (c *DetailController) onDetailsLoaded(tx transaction.Transaction) {
	fields := NewDetailFields(tx, c.FormatAmount, c.Location)

	c.mu.Lock()
	if c.left {
		c.mu.Unlock()
		return
	}
	c.record = &tx
	c.fields = &fields
	c.mu.Unlock()

	c.View.ShowDetails(fields)
}

func (c *DetailController) navigateUp() {
	c.mu.Lock()
	if c.left {
		c.mu.Unlock()
		return
	}
	c.left = true
	c.mu.Unlock()

	c.Navigator.NavigateUp()
}

// Edit forwards the shown record to the edit screen. It is a no-op until a record is shown.
func (c *DetailController) Edit() {
	c.mu.Lock()
	rec := c.record
	c.mu.Unlock()

	if rec == nil {
		c.View.Toast(stillLoading)
		return
	}
	c.Navigator.ToEdit(*rec)
}

// Delete waits for the view-model to confirm before leaving the screen.
func (c *DetailController) Delete(ctx context.Context) error {
	if err := c.ViewModel.DeleteByID(ctx, c.id); err != nil {
		logger.Error("delete failed", zap.Int64("id", c.id), zap.Error(err))
		c.View.Toast(deleteFailedMessage)
		return err
	}
	c.navigateUp()
	return nil
}

func (c *DetailController) ShareText() {
	c.mu.Lock()
	fields := c.fields
	c.mu.Unlock()

	if fields == nil {
		c.View.Toast(nothingToShare)
		return
	}
	c.View.Share(ShareContent{
		MIMEType: MIMEText,
		Text:     ShareMessage(*fields),
	})
}

// ShareImage asks for the storage permission once if it is missing; the answer
// comes back through OnPermissionResult.
func (c *DetailController) ShareImage(ctx context.Context) {
	if !c.storageGranted(ctx) {
		c.mu.Lock()
		c.awaitingPermission = true
		c.mu.Unlock()

		c.View.RequestPermission(permission.StorageWrite)
		return
	}
	c.shareImage()
}

func (c *DetailController) OnPermissionResult(ctx context.Context, granted bool) {
	c.mu.Lock()
	awaiting := c.awaitingPermission
	c.awaitingPermission = false
	c.mu.Unlock()

	if !awaiting {
		return
	}
	if !granted || !c.storageGranted(ctx) {
		c.View.ShowErrorDialog(permissionDialogHead, permissionDialogBody)
		return
	}
	c.shareImage()
}

func (c *DetailController) storageGranted(ctx context.Context) bool {
	granted, err := c.Permissions.IsGranted(ctx, c.ViewModel.UserID(), permission.StorageWrite)
	if err != nil {
		logger.Error("cannot check permission", zap.Error(err))
		return false
	}
	return granted
}

func (c *DetailController) shareImage() {
	c.mu.Lock()
	rec, fields, dark := c.record, c.fields, c.dark
	c.mu.Unlock()

	if rec == nil || fields == nil {
		c.View.Toast(nothingToShare)
		return
	}

	card, err := c.Renderer.Render(render.CardInput{
		UserID:        rec.UserID,
		TransactionID: rec.ID,
		Heading:       fields.Title,
		Lines: []render.Line{
			{Label: "Amount", Value: format.PlainRupee(rec.Amount)},
			{Label: "Transaction Type", Value: fields.Type},
			{Label: "Tag", Value: fields.Tag},
			{Label: "Date", Value: fields.Date},
			{Label: "Note", Value: fields.Note},
			{Label: "Created At", Value: fields.CreatedAt},
		},
		Dark: dark,
	})
	if err != nil {
		logger.Error("cannot render card", zap.Int64("id", rec.ID), zap.Error(err))
		c.View.Toast(imageFailedMessage)
		return
	}

	path, err := c.Saver.Save(fmt.Sprintf("transaction_%d_%d_%s.png", rec.UserID, rec.ID, render.ThemeName(dark)), card)
	if err != nil {
		logger.Error("cannot save card", zap.Int64("id", rec.ID), zap.Error(err))
		c.View.Toast(imageFailedMessage)
		return
	}

	c.View.Share(ShareContent{
		MIMEType: MIMEImage,
		Path:     path,
		Caption:  fields.Title,
	})
}
