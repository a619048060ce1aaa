package controller

import (
	"net/http"
	"strconv"

	"members-area/database/model"
	"members-area/logger"
	"members-area/web/middleware"
	"members-area/web/service"

	"github.com/gin-gonic/gin"
)

// AdminController handles the user list and the promote/demote operations.
type AdminController struct {
	userService *service.UserService
}

// NewAdminController creates a new AdminController and initializes its routes.
func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{userService: service.NewUserService()}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	admin := g.Group("/admin")
	admin.Use(middleware.SessionRequired(), middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", a.list)
		admin.GET("/promote/:userId", a.promote)
		admin.GET("/demote/:userId", a.demote)
	}
}

func (a *AdminController) list(c *gin.Context) {
	users, err := a.userService.ListUsers()
	if err != nil {
		logger.Error("listing users failed:", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	errorMessage := ""
	if c.Query("error") == "lastadmin" {
		errorMessage = "Cannot demote the last remaining admin."
	}
	html(c, "admin.html", "Admin", gin.H{"users": users, "error": errorMessage})
}

func (a *AdminController) promote(c *gin.Context) {
	a.updateRole(c, model.RoleAdmin)
}

func (a *AdminController) demote(c *gin.Context) {
	a.updateRole(c, model.RoleUser)
}

// updateRole applies the role change to the target user. A missing target is
// a 404, never a silent success.
func (a *AdminController) updateRole(c *gin.Context, role string) {
	id, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", getContext(gin.H{"title": "Not found"}))
		return
	}

	_, err = a.userService.UpdateRole(id, role)
	switch err {
	case nil:
		c.Redirect(http.StatusFound, "/admin")
	case service.ErrUserNotFound:
		c.HTML(http.StatusNotFound, "404.html", getContext(gin.H{"title": "Not found"}))
	case service.ErrLastAdmin:
		c.Redirect(http.StatusFound, "/admin?error=lastadmin")
	default:
		logger.Error("role update failed:", err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
}
