package integration

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/domain/company"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idOnly struct {
	ID string `json:"id"`
}

func TestAPI_CompanyOnboardingFlow(t *testing.T) {
	srv := NewAPIServer(t, NewTestDB(t))

	owner := srv.SignUp(t, "owner@kigalicoffee.rw", "Jean Mugabo")
	client := srv.Client.As(owner.Token.AccessToken, "")

	// Create the company; the caller becomes its owner
	resp := client.Post(t, "/api/v1/companies", map[string]any{
		"name":              "Kigali Coffee Ltd",
		"tin":               "102345678",
		"legal_form":        "LTD",
		"authorized_shares": 1000,
	})
	require.Equal(t, http.StatusCreated, resp.Code, "%+v", resp.Envelope.Error)
	var created idOnly
	resp.Decode(t, &created)
	companyID := created.ID
	require.NotEmpty(t, companyID)

	require.True(t, srv.Events.WaitFor(company.EventTypeCompanyCreated, waitTimeout))
	assert.Equal(t, companyID, srv.Events.OfType(company.EventTypeCompanyCreated)[0].CompanyID().String())

	mine := client.Get(t, "/api/v1/companies")
	require.Equal(t, http.StatusOK, mine.Code)
	var companies []idOnly
	mine.Decode(t, &companies)
	require.Len(t, companies, 1)
	assert.Equal(t, companyID, companies[0].ID)

	scoped := client.As(owner.Token.AccessToken, companyID)

	t.Run("shareholder within authorized capital", func(t *testing.T) {
		resp := scoped.Post(t, "/api/v1/persons", map[string]any{
			"full_name":   "Aline Uwase",
			"nationality": "RW",
			"roles":       []string{"SHAREHOLDER"},
			"shares_held": 600,
		})
		require.Equal(t, http.StatusCreated, resp.Code, "%+v", resp.Envelope.Error)
		var p idOnly
		resp.Decode(t, &p)
		assert.NotEmpty(t, p.ID)
	})

	t.Run("shareholder beyond authorized capital", func(t *testing.T) {
		resp := scoped.Post(t, "/api/v1/persons", map[string]any{
			"full_name":   "Eric Habimana",
			"nationality": "RW",
			"roles":       []string{"SHAREHOLDER"},
			"shares_held": 500,
		})
		require.Equal(t, http.StatusBadRequest, resp.Code)
		require.NotNil(t, resp.Envelope.Error)
		assert.Equal(t, "INVALID_INPUT", resp.Envelope.Error.Code)
		assert.Equal(t, float64(1000), resp.Envelope.Error.Details["authorized"])
		assert.Equal(t, float64(1100), resp.Envelope.Error.Details["requested_total"])
	})

	t.Run("director without shares", func(t *testing.T) {
		resp := scoped.Post(t, "/api/v1/persons", map[string]any{
			"full_name":   "Grace Mukamana",
			"nationality": "KE",
			"roles":       []string{"DIRECTOR"},
		})
		require.Equal(t, http.StatusCreated, resp.Code, "%+v", resp.Envelope.Error)
	})

	t.Run("list is scoped to the company", func(t *testing.T) {
		resp := scoped.Get(t, "/api/v1/persons")
		require.Equal(t, http.StatusOK, resp.Code)
		var persons []idOnly
		resp.Decode(t, &persons)
		assert.Len(t, persons, 2)
	})

	t.Run("dashboard counts persons by role", func(t *testing.T) {
		resp := scoped.Get(t, "/api/v1/reports/dashboard")
		require.Equal(t, http.StatusOK, resp.Code, "%+v", resp.Envelope.Error)
		var dash struct {
			CompanyID string           `json:"company_id"`
			Persons   map[string]int64 `json:"persons"`
		}
		resp.Decode(t, &dash)
		assert.Equal(t, companyID, dash.CompanyID)
		assert.Equal(t, int64(1), dash.Persons["SHAREHOLDER"])
		assert.Equal(t, int64(1), dash.Persons["DIRECTOR"])
	})
}

func TestAPI_CompanyScopeEnforcement(t *testing.T) {
	srv := NewAPIServer(t, NewTestDB(t))

	owner := srv.SignUp(t, "owner@imigongo.rw", "Diane Ingabire")
	outsider := srv.SignUp(t, "outsider@example.rw", "Patrick Nkurunziza")

	resp := srv.Client.As(owner.Token.AccessToken, "").Post(t, "/api/v1/companies", map[string]any{
		"name": "Imigongo Art Ltd",
		"tin":  "109876543",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "%+v", resp.Envelope.Error)
	var created idOnly
	resp.Decode(t, &created)

	t.Run("non-member is forbidden", func(t *testing.T) {
		resp := srv.Client.As(outsider.Token.AccessToken, created.ID).Get(t, "/api/v1/persons")
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, "FORBIDDEN", resp.ErrorCode())
	})

	t.Run("missing company header", func(t *testing.T) {
		resp := srv.Client.As(owner.Token.AccessToken, "").Get(t, "/api/v1/persons")
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "COMPANY_REQUIRED", resp.ErrorCode())
	})

	t.Run("unknown company", func(t *testing.T) {
		resp := srv.Client.As(owner.Token.AccessToken, uuid.NewString()).Get(t, "/api/v1/company")
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		resp := srv.Client.As("", created.ID).Get(t, "/api/v1/company")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := srv.Client.As("not-a-jwt", created.ID).Get(t, "/api/v1/company")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("viewer cannot write", func(t *testing.T) {
		viewerID, err := uuid.Parse(outsider.User.ID)
		require.NoError(t, err)
		companyID := uuid.MustParse(created.ID)
		srv.DB.AddMember(companyID, viewerID, company.RoleViewer)

		viewer := srv.Client.As(outsider.Token.AccessToken, created.ID)
		assert.Equal(t, http.StatusOK, viewer.Get(t, "/api/v1/persons").Code)

		resp := viewer.Post(t, "/api/v1/persons", map[string]any{
			"full_name": "Someone",
			"roles":     []string{"EMPLOYEE"},
		})
		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

func TestAPI_SessionLifecycle(t *testing.T) {
	srv := NewAPIServer(t, NewTestDB(t))
	s := srv.SignUp(t, "session@example.rw", "Claudine Uwera")
	client := srv.Client.As(s.Token.AccessToken, "")

	me := client.Get(t, "/api/v1/auth/me")
	require.Equal(t, http.StatusOK, me.Code)
	var info struct {
		Email string `json:"email"`
	}
	me.Decode(t, &info)
	assert.Equal(t, "session@example.rw", info.Email)

	t.Run("duplicate email", func(t *testing.T) {
		resp := srv.Client.Post(t, "/api/v1/auth/register", map[string]any{
			"email":     "SESSION@example.rw",
			"password":  "AnotherPass1",
			"full_name": "Imposter",
		})
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := srv.Client.Post(t, "/api/v1/auth/login", map[string]any{
			"email":    "session@example.rw",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("logout revokes the access token", func(t *testing.T) {
		resp := client.Post(t, "/api/v1/auth/logout", map[string]any{
			"refresh_token": s.Token.RefreshToken,
		})
		require.Equal(t, http.StatusOK, resp.Code, "%+v", resp.Envelope.Error)

		assert.Equal(t, http.StatusUnauthorized, client.Get(t, "/api/v1/auth/me").Code)
	})
}
