package messages

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/logger"
)

const sorryMessage = "Sorry, something wrong happened...\n"

type messageSender interface {
	SendMessage(text string, userID int64) error
	SendButtons(text string, rows [][]Button, userID int64) error
	SendPhoto(name string, data []byte, caption string, userID int64) error
	AnswerCallback(callbackID, text string) error
}

// Button is an inline keyboard button; Data comes back in a Callback.
type Button struct {
	Text string
	Data string
}

type Message struct {
	Text   string
	UserID int64
}

type Callback struct {
	ID     string
	Data   string
	UserID int64
}

type Service struct {
	tgClient messageSender
	handler  *HandlerService
}

func NewService(ctx context.Context, deps Deps) *Service {
	return &Service{
		tgClient: deps.Sender,
		handler:  newHandler(ctx, deps),
	}
}

func (s *Service) HandleIncomingMessage(ctx context.Context, msg Message) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handleMessage")
	defer span.Finish()

	start := time.Now()
	err := s.handle(ctx, msg.Text, msg.UserID)
	observeResponse(time.Since(start), "message", err != nil)

	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

// HandleCallback serves inline keyboard presses the same way as typed commands.
func (s *Service) HandleCallback(ctx context.Context, cb Callback) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handleCallback")
	defer span.Finish()

	if err := s.tgClient.AnswerCallback(cb.ID, ""); err != nil {
		logger.Warn("cannot answer callback", zap.Error(err))
	}

	start := time.Now()
	err := s.handleCallback(ctx, cb)
	observeResponse(time.Since(start), "callback", err != nil)

	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) handleCallback(ctx context.Context, cb Callback) error {
	text, ok := s.handler.callbackCommand(cb.Data)
	if !ok {
		return s.handler.HandlePermission(ctx, cb.Data, cb.UserID)
	}
	return s.handle(ctx, text, cb.UserID)
}

func (s *Service) handle(ctx context.Context, text string, userID int64) error {
	resp, err := s.handler.HandleMessage(ctx, text, userID)
	if err != nil {
		// an empty reply means the screen already told the user
		if resp != "" {
			_ = s.tgClient.SendMessage(sorryMessage+resp, userID)
		}
		return err
	}
	if resp == "" {
		return nil
	}
	return s.tgClient.SendMessage(resp, userID)
}

// Close drops every user session and stops their screens.
func (s *Service) Close() {
	s.handler.sessions.closeAll()
}
