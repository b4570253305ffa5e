package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/person"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyIsolation_Persons(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	repo := persistence.NewGormPersonRepository(tdb.DB)

	owner := tdb.CreateUser("iso-owner@example.rw", "IsolationPass1", "Isolation Owner")
	companyA := tdb.CreateCompany(owner.ID, "Alpha Ltd", "100000001", 1000)
	companyB := tdb.CreateCompany(owner.ID, "Beta Ltd", "100000002", 1000)

	newShareholder := func(companyID uuid.UUID, name string, shares int64) *person.Person {
		p, err := person.NewPerson(companyID, owner.ID, person.Details{
			FullName:   name,
			Roles:      []person.Role{person.RoleShareholder},
			SharesHeld: shares,
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
		return p
	}
	alice := newShareholder(companyA.ID, "Alice Mutesi", 400)
	newShareholder(companyA.ID, "Bosco Kalisa", 100)
	newShareholder(companyB.ID, "Chantal Iradukunda", 900)

	t.Run("lookup across companies is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, companyB.ID, alice.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByID(ctx, companyA.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice Mutesi", found.FullName)
	})

	t.Run("listing is scoped", func(t *testing.T) {
		persons, total, err := repo.FindAll(ctx, companyA.ID, person.Filter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, p := range persons {
			assert.Equal(t, companyA.ID, p.CompanyID)
		}
	})

	t.Run("share totals are scoped", func(t *testing.T) {
		sumA, err := repo.SumShares(ctx, companyA.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(500), sumA)

		sumB, err := repo.SumShares(ctx, companyB.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(900), sumB)

		excluding, err := repo.SumShares(ctx, companyA.ID, &alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), excluding)
	})

	t.Run("delete across companies is not found", func(t *testing.T) {
		err := repo.Delete(ctx, companyB.ID, alice.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByID(ctx, companyA.ID, alice.ID)
		assert.NoError(t, err)
	})

	t.Run("memberships are per company", func(t *testing.T) {
		memberships := persistence.NewGormMembershipRepository(tdb.DB)
		outsider := tdb.CreateUser("iso-outsider@example.rw", "IsolationPass2", "Isolation Outsider")

		_, err := memberships.Find(ctx, companyA.ID, outsider.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		companies, total, err := persistence.NewGormCompanyRepository(tdb.DB).
			FindForUser(ctx, owner.ID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, companies, 2)
	})
}
