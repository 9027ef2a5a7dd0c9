package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/internhub/backend/internal/domain"
)

// memoryRepo is an in-memory InternshipRepository for gate tests.
type memoryRepo struct {
	records   map[domain.InternshipKey]*domain.Internship
	existsErr error
	insertErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[domain.InternshipKey]*domain.Internship)}
}

func (m *memoryRepo) ExistsByKey(_ context.Context, key domain.InternshipKey) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.records[key]
	return ok, nil
}

func (m *memoryRepo) Insert(_ context.Context, in *domain.Internship) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.records[in.Key()] = in
	return nil
}

func candidate(title, company string, platform domain.Platform) *domain.Internship {
	return &domain.Internship{
		Title:       title,
		CompanyName: company,
		Source:      domain.Source{Platform: platform},
	}
}

func TestGateSaveIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	gate := NewGate(repo, zap.NewNop())
	ctx := context.Background()

	first := gate.Save(ctx, candidate("Software Intern", "TechCorp", domain.PlatformLinkedIn))
	second := gate.Save(ctx, candidate("Software Intern", "TechCorp", domain.PlatformLinkedIn))

	assert.True(t, first, "first save should create the record")
	assert.False(t, second, "second save with the same key should be a duplicate")
	assert.Len(t, repo.records, 1)
}

func TestGateSaveDistinctPlatforms(t *testing.T) {
	repo := newMemoryRepo()
	gate := NewGate(repo, zap.NewNop())
	ctx := context.Background()

	assert.True(t, gate.Save(ctx, candidate("Software Intern", "TechCorp", domain.PlatformLinkedIn)))
	assert.True(t, gate.Save(ctx, candidate("Software Intern", "TechCorp", domain.PlatformIndeed)))
	assert.Len(t, repo.records, 2, "same title/company on different platforms are distinct records")
}

func TestGateSaveRequiredFields(t *testing.T) {
	repo := newMemoryRepo()
	gate := NewGate(repo, zap.NewNop())
	ctx := context.Background()

	assert.False(t, gate.Save(ctx, nil))
	assert.False(t, gate.Save(ctx, candidate("", "TechCorp", domain.PlatformLinkedIn)))
	assert.False(t, gate.Save(ctx, candidate("Software Intern", "", domain.PlatformLinkedIn)))
	assert.False(t, gate.Save(ctx, candidate("Software Intern", "TechCorp", "")))
	assert.Empty(t, repo.records)
}

func TestGateSaveErrorsDegradeToFalse(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup error", func(t *testing.T) {
		repo := newMemoryRepo()
		repo.existsErr = errors.New("connection refused")
		gate := NewGate(repo, zap.NewNop())
		assert.False(t, gate.Save(ctx, candidate("Intern", "Co", domain.PlatformIndeed)))
	})

	t.Run("insert error", func(t *testing.T) {
		repo := newMemoryRepo()
		repo.insertErr = errors.New("constraint violation")
		gate := NewGate(repo, zap.NewNop())
		assert.False(t, gate.Save(ctx, candidate("Intern", "Co", domain.PlatformIndeed)))
		assert.Empty(t, repo.records)
	})
}
