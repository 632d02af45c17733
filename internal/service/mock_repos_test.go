package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"invite-rsvp/internal/model"
	pkgerrors "invite-rsvp/pkg/errors"
)

// ── Mock AcceptanceRepository ──

type mockAcceptanceRepo struct {
	records   []model.InviteAcceptance
	createErr error
	listErr   error
	creates   int
}

func newMockAcceptanceRepo() *mockAcceptanceRepo {
	return &mockAcceptanceRepo{}
}

func (m *mockAcceptanceRepo) Create(ctx context.Context, rec *model.InviteAcceptance) error {
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("期望带超时的上下文")
	}
	rec.ID = fmt.Sprintf("rec-%03d", len(m.records)+1)
	m.records = append(m.records, *rec)
	return nil
}

func (m *mockAcceptanceRepo) ListAll(_ context.Context) ([]model.InviteAcceptance, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.InviteAcceptance, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AcceptedAt.After(out[j].AcceptedAt)
	})
	return out, nil
}

// ── Mock SubmissionLocker ──

type mockLocker struct {
	held     map[string]bool
	err      error
	acquired int
	released int
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: make(map[string]bool)}
}

func (m *mockLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (func(), error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.held[key] {
		return nil, pkgerrors.ErrLockHeld
	}
	m.held[key] = true
	m.acquired++
	return func() {
		delete(m.held, key)
		m.released++
	}, nil
}

func intPtr(n int) *int { return &n }
