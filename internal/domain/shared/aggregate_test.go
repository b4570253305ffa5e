package shared

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBaseAggregateRoot_Versions(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.Equal(t, 0, root.PersistedVersion())

	root.MarkPersisted(1)
	assert.Equal(t, 2, root.NextVersion(), "touch-only change still advances")

	root.IncrementVersion()
	root.IncrementVersion()
	assert.Equal(t, 3, root.NextVersion())
}

func TestCompanyAggregateRoot_Creator(t *testing.T) {
	company := uuid.New()
	root := NewCompanyAggregateRootWithCreator(company, uuid.Nil)
	assert.Nil(t, root.CreatedBy)
	assert.True(t, root.BelongsTo(company))
	assert.False(t, root.BelongsTo(uuid.New()))
}

func TestDomainError_IsMatchesCode(t *testing.T) {
	err := NotFound("Invoice")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))

	detailed := InvalidInput("bad").WithDetails(map[string]any{"field": "x"})
	assert.Equal(t, CodeInvalidInput, detailed.Code)
	assert.Equal(t, "x", detailed.Details["field"])
}

func TestFilter_NormalizeAndOffset(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)

	f.Page = 3
	assert.Equal(t, 200, f.Offset())
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPaginated[int](nil, 5, 1, 0).TotalPages)
}
