package session

import (
	"encoding/gob"

	"members-area/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Name is the session cookie name.
const Name = "members-area"

const loginUser = "LOGIN_USER"

func init() {
	gob.Register(model.User{})
}

// SetLoginUser stores the identity projection of user in the session. Only
// the auth flow calls this; the password hash never enters the session.
func SetLoginUser(c *gin.Context, user *model.User) error {
	s := sessions.Default(c)
	s.Set(loginUser, model.User{
		Id:    user.Id,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
	return s.Save()
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	return s.Save()
}

func GetLoginUser(c *gin.Context) *model.User {
	s := sessions.Default(c)
	if obj := s.Get(loginUser); obj != nil {
		if user, ok := obj.(model.User); ok {
			return &user
		}
	}
	return nil
}

// IsLogin reports whether the request carries an unexpired authenticated
// session. Expired records have already been dropped by the store, so they
// read the same as no session at all.
func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie(Name, "", -1, "/", "", false, true)
	return nil
}
