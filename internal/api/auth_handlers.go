package api

import (
	"github.com/gin-gonic/gin"

	"github.com/fortaxe/food-track-backend/internal/auth"
)

// PostContinue unifies login and signup: an unseen email creates a user, a
// known one logs in. Either way the response carries a bearer token for the
// resolved identity.
func PostContinue(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.ContinueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := auth.ValidateContinueRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Email and password required")
			return
		}

		token, user, err := app.Auth().Continue(c.Request.Context(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Login failed")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{
			"token": token,
			"user":  gin.H{"id": user.ID, "email": user.Email},
		}, nil)
	}
}

// GetMe decodes the bearer token on the request and echoes the identity back.
func GetMe(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.MustGet(auth.IdentityKey).(*auth.Identity)
		HandleSuccess(c, app.Logger(), gin.H{"user": identity}, nil)
	}
}
