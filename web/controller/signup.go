package controller

import (
	"net/http"

	"members-area/config"
	"members-area/logger"
	"members-area/web/service"
	"members-area/web/session"

	"github.com/gin-gonic/gin"
)

// SignupForm represents the signup request structure.
type SignupForm struct {
	Email    string `json:"email" form:"email"`
	Name     string `json:"name" form:"name"`
	Password string `json:"password" form:"password"`
}

// SignupController handles account creation.
type SignupController struct {
	userService *service.UserService
}

// NewSignupController creates a new SignupController and initializes its routes.
func NewSignupController(g *gin.RouterGroup) *SignupController {
	a := &SignupController{userService: service.NewUserService()}
	a.initRouter(g)
	return a
}

func (a *SignupController) initRouter(g *gin.RouterGroup) {
	g.GET("/signup", a.signupForm)
	g.POST("/submitUser", a.submitUser)
}

func (a *SignupController) signupForm(c *gin.Context) {
	errorMessage := ""
	switch c.Query("error") {
	case "invalid":
		errorMessage = "Invalid input. Please try again."
	case "taken":
		errorMessage = "That email is already registered."
	}
	html(c, "signup.html", "Sign up", gin.H{"error": errorMessage})
}

// submitUser creates the account and logs the new user straight in.
func (a *SignupController) submitUser(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, "/signup?error=invalid")
		return
	}

	user, err := a.userService.Register(service.SignupInput{
		Email:    form.Email,
		Name:     form.Name,
		Password: form.Password,
	})
	switch err {
	case nil:
	case service.ErrInvalidInput:
		c.Redirect(http.StatusSeeOther, "/signup?error=invalid")
		return
	case service.ErrEmailTaken:
		c.Redirect(http.StatusSeeOther, "/signup?error=taken")
		return
	default:
		logger.Error("signup failed:", err)
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

	logger.Infof("new account %s, IP: %s", user.Email, getRemoteIp(c))
	html(c, "success.html", "Welcome", gin.H{"name": user.Name})
}
