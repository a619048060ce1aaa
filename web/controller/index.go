// Package controller provides the HTTP request handlers: signup, login, the
// session-gated member pages and the admin area.
package controller

import (
	"net/http"

	"members-area/config"
	"members-area/logger"
	"members-area/web/service"
	"members-area/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// IndexController handles the home page and login-related routes.
type IndexController struct {
	userService *service.UserService
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{userService: service.NewUserService()}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.index)
	g.GET("/login", a.loginForm)
	g.POST("/loggingin", a.login)
	g.GET("/logout", a.logout)
}

// index shows the home page, greeting the user by name when a session is
// present.
func (a *IndexController) index(c *gin.Context) {
	var name string
	if user := session.GetLoginUser(c); user != nil {
		name = user.Name
	}
	html(c, "home.html", "Home", gin.H{"name": name})
}

// loginForm renders the login page. A failed attempt comes back here with
// ?error=invalid; the message never says which part was wrong.
func (a *IndexController) loginForm(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusFound, "/loggedin")
		return
	}
	errorMessage := ""
	if c.Query("error") == "invalid" {
		errorMessage = "Invalid email/password combination"
	}
	html(c, "login.html", "Log in", gin.H{"error": errorMessage})
}

// login authenticates the user and establishes the session.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, "/login?error=invalid")
		return
	}

	user, err := a.userService.Authenticate(form.Email, form.Password)
	if err == service.ErrInvalidCredentials {
		c.Redirect(http.StatusSeeOther, "/login?error=invalid")
		return
	} else if err != nil {
		logger.Error("login failed:", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := session.SetMaxAge(c, config.GetSessionMaxAge()); err != nil {
		logger.Warning("unable to set session max age:", err)
	}
	if err := session.SetLoginUser(c, user); err != nil {
		logger.Error("unable to save session:", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.Infof("%s logged in successfully, IP: %s", user.Email, getRemoteIp(c))
	c.Redirect(http.StatusSeeOther, "/loggedin")
}

// logout destroys the session unconditionally and sends the client home.
// Destruction errors are logged, never surfaced.
func (a *IndexController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("%s logged out", user.Email)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("unable to clear session:", err)
	}
	c.Redirect(http.StatusFound, "/")
}
