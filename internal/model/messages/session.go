package messages

import (
	"context"
	"sync"
	"time"

	"max.ks1230/moneyezy-bot/internal/entity/transaction"
	"max.ks1230/moneyezy-bot/internal/model/navigation"
	"max.ks1230/moneyezy-bot/internal/model/prefs"
	"max.ks1230/moneyezy-bot/internal/model/screens"
	"max.ks1230/moneyezy-bot/internal/model/viewmodel"
)

// session is everything one chat owns: its view-model, its back stack and
// the view that draws screens into the chat.
type session struct {
	userID int64
	vm     *viewmodel.ViewModel
	host   *navigation.Host
	view   *botView
	uiMode *prefs.UIModeStore
	deps   *Deps
}

type sessions struct {
	ctx  context.Context
	deps *Deps

	mu   sync.Mutex
	byID map[int64]*session
}

func newSessions(ctx context.Context, deps *Deps) *sessions {
	return &sessions{
		ctx:  ctx,
		deps: deps,
		byID: make(map[int64]*session),
	}
}

func (s *sessions) get(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.byID[userID]; ok {
		return sess
	}

	opts := []viewmodel.Option{viewmodel.WithClock(s.deps.Now)}
	if s.deps.Publisher != nil {
		opts = append(opts, viewmodel.WithPublisher(s.deps.Publisher))
	}
	if s.deps.CardCache != nil {
		opts = append(opts, viewmodel.WithCardCache(s.deps.CardCache))
	}

	sess := &session{
		userID: userID,
		vm:     viewmodel.New(userID, s.deps.Storage, opts...),
		host:   navigation.NewHost(s.ctx),
		uiMode: s.deps.UIModes.ForUser(userID),
		deps:   s.deps,
	}
	sess.view = &botView{userID: userID, sender: s.deps.Sender, media: s.deps.Media}
	s.byID[userID] = sess
	return sess
}

func (s *sessions) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.byID {
		sess.host.Close()
		delete(s.byID, id)
	}
}

func (s *session) showDetail(id int64) {
	s.host.Reset(s.detailScreen(id))
}

func (s *session) detailScreen(id int64) navigation.Factory {
	return func(h *navigation.Handle) navigation.Screen {
		return screens.NewDetailController(id, screens.DetailDeps{
			ViewModel:   s.vm,
			View:        s.view,
			Navigator:   &screenNavigator{handle: h, sess: s},
			UIMode:      s.uiMode,
			Permissions: s.deps.Storage,
			Renderer:    s.deps.Renderer,
			Saver:       s.deps.Media,
			Location:    s.deps.Config.Location(),
		})
	}
}

func (s *session) editScreen(tx transaction.Transaction) navigation.Factory {
	return func(h *navigation.Handle) navigation.Screen {
		return screens.NewEditController(tx, screens.EditDeps{
			ViewModel:         s.vm,
			View:              s.view,
			Navigator:         &screenNavigator{handle: h, sess: s},
			Now:               s.deps.Now,
			Location:          s.deps.Config.Location(),
			PreserveCreatedAt: s.deps.Config.PreserveCreatedAt(),
		})
	}
}

func (s *session) detail() (*screens.DetailController, bool) {
	c, ok := s.host.Top().(*screens.DetailController)
	return c, ok
}

func (s *session) edit() (*screens.EditController, bool) {
	c, ok := s.host.Top().(*screens.EditController)
	return c, ok
}

func (s *session) now() time.Time {
	return s.deps.Now().In(s.deps.Config.Location())
}

// screenNavigator routes a screen's navigation through its own handle.
type screenNavigator struct {
	handle *navigation.Handle
	sess   *session
}

func (n *screenNavigator) NavigateUp() {
	if !n.handle.Back() {
		return
	}
	if n.sess.host.Depth() == 0 {
		n.sess.view.Toast(closedMessage)
	}
}

func (n *screenNavigator) ToEdit(tx transaction.Transaction) {
	n.handle.Push(n.sess.editScreen(tx))
}
