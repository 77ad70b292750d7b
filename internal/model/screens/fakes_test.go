package screens

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"max.ks1230/moneyezy-bot/internal/entity/permission"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
	"max.ks1230/moneyezy-bot/internal/model/observable"
	"max.ks1230/moneyezy-bot/internal/model/render"
	"max.ks1230/moneyezy-bot/internal/model/viewmodel"
)

type fakeView struct {
	mu          sync.Mutex
	toasts      []string
	details     []DetailFields
	dialogs     []string
	permissions []permission.Permission
	shares      []ShareContent
	forms       []Form
	fieldErrors map[Field]string
}

func newFakeView() *fakeView {
	return &fakeView{fieldErrors: map[Field]string{}}
}

func (v *fakeView) Toast(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.toasts = append(v.toasts, msg)
}

func (v *fakeView) ShowDetails(fields DetailFields) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.details = append(v.details, fields)
}

func (v *fakeView) ShowErrorDialog(title, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dialogs = append(v.dialogs, title+": "+message)
}

func (v *fakeView) RequestPermission(perm permission.Permission) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.permissions = append(v.permissions, perm)
}

func (v *fakeView) Share(content ShareContent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shares = append(v.shares, content)
}

func (v *fakeView) ShowForm(form Form, _, _ []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.forms = append(v.forms, form)
}

func (v *fakeView) ShowFieldError(field Field, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fieldErrors[field] = message
}

func (v *fakeView) snapshot() fakeView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fakeView{
		toasts:      append([]string(nil), v.toasts...),
		details:     append([]DetailFields(nil), v.details...),
		dialogs:     append([]string(nil), v.dialogs...),
		permissions: append([]permission.Permission(nil), v.permissions...),
		shares:      append([]ShareContent(nil), v.shares...),
		forms:       append([]Form(nil), v.forms...),
	}
}

type fakeNav struct {
	mu    sync.Mutex
	ups   int
	edits []transaction.Transaction
}

func (n *fakeNav) NavigateUp() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ups++
}

func (n *fakeNav) ToEdit(tx transaction.Transaction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.edits = append(n.edits, tx)
}

func (n *fakeNav) upCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ups
}

// fakeDetailVM lets tests drive DetailState directly.
type fakeDetailVM struct {
	state     *observable.Value[viewmodel.DetailState]
	requested []int64
	deleteErr error
	deleted   []int64
	updated   []transaction.Transaction
	updateErr error
}

func newFakeDetailVM() *fakeDetailVM {
	return &fakeDetailVM{state: observable.New(viewmodel.Loading())}
}

func (vm *fakeDetailVM) UserID() int64 { return 1 }

func (vm *fakeDetailVM) DetailState(ctx context.Context) <-chan viewmodel.DetailState {
	return vm.state.Subscribe(ctx)
}

func (vm *fakeDetailVM) GetByID(_ context.Context, id int64) {
	vm.requested = append(vm.requested, id)
}

func (vm *fakeDetailVM) DeleteByID(_ context.Context, id int64) error {
	if vm.deleteErr != nil {
		return vm.deleteErr
	}
	vm.deleted = append(vm.deleted, id)
	vm.state.Set(viewmodel.Empty())
	return nil
}

func (vm *fakeDetailVM) UpdateTransaction(_ context.Context, tx transaction.Transaction) error {
	if vm.updateErr != nil {
		return vm.updateErr
	}
	vm.updated = append(vm.updated, tx)
	return nil
}

type fakePermissions struct {
	mu      sync.Mutex
	granted bool
	err     error
}

func (p *fakePermissions) IsGranted(context.Context, int64, permission.Permission) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted, p.err
}

func (p *fakePermissions) grant() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.granted = true
}

type fakeSaver struct {
	saved map[string][]byte
	err   error
}

func (s *fakeSaver) Save(name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[name] = data
	return "/media/" + name, nil
}

type fakeRenderer struct {
	inputs []render.CardInput
}

func (r *fakeRenderer) Render(in render.CardInput) ([]byte, error) {
	r.inputs = append(r.inputs, in)
	return []byte("png"), nil
}

var errBoom = errors.New("boom")
