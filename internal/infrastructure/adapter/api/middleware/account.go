package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/booster-economy/internal/domain/error"
	"github.com/amirhossein-jamali/booster-economy/internal/infrastructure/adapter/api/dto"
)

// AccountIDHeader carries the account id resolved by the authentication layer in front of the service
const AccountIDHeader = "X-Account-ID"

const accountIDKey = "account_id"

// RequireAccount rejects requests without a valid account id
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, err := strconv.ParseUint(c.GetHeader(AccountIDHeader), 10, 64)
		if err != nil || accountID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.CodeInvalidRequest,
				Message: "Missing or invalid " + AccountIDHeader + " header",
			})
			return
		}

		c.Set(accountIDKey, accountID)
		c.Next()
	}
}

// AccountIDFrom returns the account id stored by RequireAccount
func AccountIDFrom(c *gin.Context) (uint64, bool) {
	value, ok := c.Get(accountIDKey)
	if !ok {
		return 0, false
	}
	accountID, ok := value.(uint64)
	return accountID, ok
}
