package cashflow

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// fixedNow is a Saturday afternoon; "today" is 2026-01-10
var fixedNow = time.Date(2026, time.January, 10, 14, 30, 0, 0, time.UTC)

func testProjector() *Projector {
	return &Projector{
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
	}
}

func day(month time.Month, d int) Date {
	return DateOf(2026, month, d, time.UTC)
}

func ptr(v float64) *float64 {
	return &v
}

func datePtr(d Date) *Date {
	return &d
}

func amounts(occs []Occurrence) []float64 {
	out := make([]float64, len(occs))
	for i, o := range occs {
		out[i] = o.Amount
	}
	return out
}

func keys(occs []Occurrence) []string {
	out := make([]string, len(occs))
	for i, o := range occs {
		out[i] = NewDate(o.Date).Key()
	}
	return out
}

// MockLogger is a testify mock of Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, kv ...interface{}) { m.Called(msg, kv) }
func (m *MockLogger) Info(msg string, kv ...interface{})  { m.Called(msg, kv) }
func (m *MockLogger) Warn(msg string, kv ...interface{})  { m.Called(msg, kv) }
func (m *MockLogger) Error(msg string, kv ...interface{}) { m.Called(msg, kv) }

// MockStore is a testify mock of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context) (*State, error) {
	args := m.Called(ctx)
	state, _ := args.Get(0).(*State)
	return state, args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, state *State) error {
	return m.Called(ctx, state).Error(0)
}
