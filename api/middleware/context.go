package middleware

import (
	"bookshelf/internal/entity"

	"github.com/labstack/echo/v4"
)

const contextUserKey = "auth_user"

func SetAuthContext(c echo.Context, user *entity.User) {
	c.Set(contextUserKey, user)
}

func UserFromContext(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(contextUserKey).(*entity.User)
	return user, ok && user != nil
}
