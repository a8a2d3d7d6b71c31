package items

import "context"

// MockStore é um mock da interface Store com campos de função.
// Campos não definidos retornam ErrNotFound (leituras e escritas por id)
// ou valores vazios.
type MockStore struct {
	ListFn   func(ctx context.Context) ([]Item, error)
	GetFn    func(ctx context.Context, id int64) (*Item, error)
	CreateFn func(ctx context.Context, in Input) (*Item, error)
	UpdateFn func(ctx context.Context, id int64, in Input) (*Item, error)
	DeleteFn func(ctx context.Context, id int64) error
}

func (m *MockStore) List(ctx context.Context) ([]Item, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []Item{}, nil
}

func (m *MockStore) Get(ctx context.Context, id int64) (*Item, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) Create(ctx context.Context, in Input) (*Item, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, in)
	}
	return &Item{ID: 1, Name: nameOf(in), Description: in.Description}, nil
}

func (m *MockStore) Update(ctx context.Context, id int64, in Input) (*Item, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, in)
	}
	return nil, ErrNotFound
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return ErrNotFound
}
