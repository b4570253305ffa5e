package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rwbiz/backend/internal/application/access"
	"github.com/rwbiz/backend/internal/application/company"
	"github.com/rwbiz/backend/internal/domain/shared"
	"github.com/rwbiz/backend/internal/infrastructure/logger"
	"github.com/rwbiz/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ActorKey stores the resolved access.Actor in gin.Context
const ActorKey = "actor"

// AccessResolver resolves the caller's membership in a company.
// company.CompanyService implements it.
type AccessResolver interface {
	ResolveAccess(ctx context.Context, companyID, userID uuid.UUID) (*company.MemberAccess, error)
}

// CompanyScope reads X-Company-ID, verifies the authenticated user is a
// member and stores the resulting actor. It must run after JWT auth.
func CompanyScope(resolver AccessResolver, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(HeaderCompanyID)
		if header == "" {
			abortWithCode(c, dto.ErrCodeCompanyRequired, "The "+HeaderCompanyID+" header is required")
			return
		}
		companyID, err := uuid.Parse(header)
		if err != nil {
			abortWithCode(c, dto.ErrCodeInvalidID, "Invalid company ID format")
			return
		}
		userID, err := uuid.Parse(GetJWTUserID(c))
		if err != nil {
			abortWithCode(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		ctx := c.Request.Context()
		membership, err := resolver.ResolveAccess(ctx, companyID, userID)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				abortWithCode(c, domainErr.Code, domainErr.Message)
				return
			}
			logger.Enrich(ctx, log).Error("Failed to resolve company access",
				zap.String("company_id", companyID.String()),
				zap.Error(err))
			abortWithCode(c, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}

		c.Set(ActorKey, access.Actor{
			UserID:    userID,
			CompanyID: companyID,
			Role:      membership.Role,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(logger.WithCompanyID(ctx, companyID.String()))
		c.Next()
	}
}

// GetActor returns the actor stored by CompanyScope
func GetActor(c *gin.Context) (access.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}

func abortWithCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
