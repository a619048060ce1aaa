package controller

import (
	"net/http"

	"members-area/logger"
	"members-area/web/middleware"
	"members-area/web/service"
	"members-area/web/session"

	"github.com/gin-gonic/gin"
)

// MemberController handles the pages behind the session gate.
type MemberController struct {
	userService *service.UserService
}

// NewMemberController creates a new MemberController and initializes its routes.
func NewMemberController(g *gin.RouterGroup) *MemberController {
	a := &MemberController{userService: service.NewUserService()}
	a.initRouter(g)
	return a
}

func (a *MemberController) initRouter(g *gin.RouterGroup) {
	gated := g.Group("/")
	gated.Use(middleware.SessionRequired())
	{
		gated.GET("/loggedin", a.loggedIn)
		gated.GET("/members", a.members)
	}
}

// loggedIn is the post-login landing page. The displayed name is re-read
// from the store on every visit; a vanished account logs the session out.
func (a *MemberController) loggedIn(c *gin.Context) {
	sessUser := session.GetLoginUser(c)

	user, err := a.userService.GetByEmail(sessUser.Email)
	if err == service.ErrUserNotFound {
		_ = session.ClearSession(c)
		c.Redirect(http.StatusFound, "/login")
		return
	} else if err != nil {
		logger.Error("fetching user failed:", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if user.Name != sessUser.Name {
		sessUser.Name = user.Name
		if err := session.SetLoginUser(c, sessUser); err != nil {
			logger.Warning("unable to refresh session name:", err)
		}
	}

	html(c, "loggedin.html", "Logged in", gin.H{"name": user.Name})
}

func (a *MemberController) members(c *gin.Context) {
	user := session.GetLoginUser(c)
	html(c, "members.html", "Members", gin.H{"name": user.Name})
}
