package tg

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/logger"
	"max.ks1230/moneyezy-bot/internal/model/messages"
)

const (
	defaultUpdateOffset = 0
	updateTimeout       = 60
	timeoutSeconds      = 5
)

type config interface {
	Token() string
	Debug() bool
}

type Client struct {
	client *tgbotapi.BotAPI
}

func New(cfg config) (*Client, error) {
	client, err := tgbotapi.NewBotAPI(cfg.Token())
	if err != nil {
		return nil, errors.Wrap(err, "cannot NewBotApi")
	}
	client.Debug = cfg.Debug()
	return &Client{client}, nil
}

func (c *Client) SendMessage(text string, userID int64) error {
	_, err := c.client.Send(tgbotapi.NewMessage(userID, text))
	if err != nil {
		return errors.Wrap(err, "client.Send")
	}
	return nil
}

func (c *Client) SendButtons(text string, rows [][]messages.Button, userID int64) error {
	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = keyboard(rows)

	_, err := c.client.Send(msg)
	if err != nil {
		return errors.Wrap(err, "client.Send buttons")
	}
	return nil
}

func (c *Client) SendPhoto(name string, data []byte, caption string, userID int64) error {
	photo := tgbotapi.NewPhoto(userID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = caption

	_, err := c.client.Send(photo)
	if err != nil {
		return errors.Wrap(err, "client.Send photo")
	}
	return nil
}

func (c *Client) AnswerCallback(callbackID, text string) error {
	_, err := c.client.Request(tgbotapi.NewCallback(callbackID, text))
	if err != nil {
		return errors.Wrap(err, "client.Request callback")
	}
	return nil
}

func keyboard(rows [][]messages.Button) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		kbRows = append(kbRows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}

func (c *Client) ListenUpdates(ctx context.Context, msgModel *messages.Service) {
	u := tgbotapi.NewUpdate(defaultUpdateOffset)
	u.Timeout = updateTimeout

	updates := c.client.GetUpdatesChan(u)

	logger.Info("Start listening for messages")

	for {
		select {
		case <-ctx.Done():
			c.client.StopReceivingUpdates()
			logger.Info("Stop listening for messages")
			return
		case update := <-updates:
			c.listenOnce(ctx, update, msgModel)
		}
	}
}

func (c *Client) listenOnce(ctx context.Context, update tgbotapi.Update, msgModel *messages.Service) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*timeoutSeconds)
	defer cancel()

	switch {
	case update.Message != nil:
		logger.Info(update.Message.Text, zap.String("user", update.Message.From.UserName))

		err := msgModel.HandleIncomingMessage(ctx, messages.Message{
			Text:   update.Message.Text,
			UserID: update.Message.From.ID,
		})
		if err != nil {
			logger.Error("error processing message:", zap.Error(err))
		}
	case update.CallbackQuery != nil:
		logger.Info("callback", zap.String("data", update.CallbackQuery.Data), zap.String("user", update.CallbackQuery.From.UserName))

		err := msgModel.HandleCallback(ctx, messages.Callback{
			ID:     update.CallbackQuery.ID,
			Data:   update.CallbackQuery.Data,
			UserID: update.CallbackQuery.From.ID,
		})
		if err != nil {
			logger.Error("error processing callback:", zap.Error(err))
		}
	}
}
