package middleware

import (
	"net/http"

	"members-area/logger"
	"members-area/web/entity"
	"members-area/web/service"
	"members-area/web/session"

	"github.com/gin-gonic/gin"
)

// SessionRequired gates a route on an authenticated, unexpired session.
// Missing and expired sessions are the same case: the store has no record,
// so the client is sent to the login page (or gets a 401 for AJAX).
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := session.GetLoginUser(c)
		if user == nil {
			if isAjax(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, entity.Msg{
					Success: false,
					Msg:     "please log in again",
				})
			} else {
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
			}
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

// RequireRole gates a route on the user's current role re-read from the
// store, not the copy frozen into the session at login. A promoted or demoted
// user is therefore gated correctly on their very next request. An
// authenticated user with the wrong role gets a hard 403, never a redirect,
// so "not logged in" and "forbidden" stay distinguishable.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		sessUser := session.GetLoginUser(c)
		if sessUser == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		userService := service.NewUserService()
		user, err := userService.GetByEmail(sessUser.Email)
		if err == service.ErrUserNotFound {
			// Account vanished while the session was live.
			_ = session.ClearSession(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		} else if err != nil {
			logger.Error("role check failed:", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		if !allowed[user.Role] {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set("user", sessUser)
		c.Set("role", user.Role)
		c.Next()
	}
}

func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
