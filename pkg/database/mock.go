package database

import (
	"context"
	"sync"
)

// MockAcquirer entrega sempre a mesma Conn (ex.: uma conexão do pgxmock) e
// contabiliza empréstimos e devoluções, para verificar o ciclo de vida nos testes.
type MockAcquirer struct {
	Conn Conn
	Err  error

	mu       sync.Mutex
	acquired int
	released int
}

func (m *MockAcquirer) Acquire(_ context.Context) (Conn, func(), error) {
	if m.Err != nil {
		return nil, nil, m.Err
	}

	m.mu.Lock()
	m.acquired++
	m.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			m.released++
			m.mu.Unlock()
		})
	}
	return m.Conn, release, nil
}

// Acquired retorna quantas conexões foram emprestadas.
func (m *MockAcquirer) Acquired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired
}

// Outstanding retorna quantas conexões emprestadas ainda não foram devolvidas.
func (m *MockAcquirer) Outstanding() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired - m.released
}
