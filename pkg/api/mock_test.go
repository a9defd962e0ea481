package api

import (
	"context"
	"sync"

	"ranking/pkg/ranking"
)

type mockConn struct {
	mu        sync.Mutex
	ReadFunc  func(ctx context.Context, sheet string) (ranking.Input, error)
	Published []ranking.Table
	Closed    bool
	Saved     bool
	SaveErr   error
}

func (m *mockConn) Read(ctx context.Context, sheet string) (ranking.Input, error) {
	return m.ReadFunc(ctx, sheet)
}

func (m *mockConn) Publish(ctx context.Context, table ranking.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, table)
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// mockSavingConn buffers writes like a local workbook does.
type mockSavingConn struct {
	mockConn
}

func (m *mockSavingConn) Save() error {
	m.Saved = true
	return m.SaveErr
}
