package access

import (
	"errors"
	"testing"

	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestActor_Require(t *testing.T) {
	tests := []struct {
		role    company.Role
		action  company.Action
		allowed bool
	}{
		{company.RoleViewer, company.ActionRead, true},
		{company.RoleViewer, company.ActionWrite, false},
		{company.RoleAccountant, company.ActionWrite, true},
		{company.RoleAccountant, company.ActionApprove, false},
		{company.RoleAccountant, company.ActionManageMembers, false},
		{company.RoleAdmin, company.ActionApprove, true},
		{company.RoleAdmin, company.ActionDeleteCompany, false},
		{company.RoleOwner, company.ActionDeleteCompany, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			err := Actor{Role: tt.role}.Require(tt.action)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, shared.ErrForbidden))
		})
	}
}

func TestActor_CreatorID(t *testing.T) {
	a := Actor{Role: company.RoleOwner}
	assert.Equal(t, a.UserID, *a.CreatorID())
	assert.True(t, a.IsPrivileged())
}
