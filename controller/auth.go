package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"imghost/errs"
	"imghost/logger"
	"imghost/middlewares"
	"imghost/models"
	"imghost/service"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthController struct {
	auth     *service.Auth
	cookie   CookieConfig
	validate *validator.Validate
	l        logger.Interface
}

func NewAuthController(auth *service.Auth, cookie CookieConfig, l logger.Interface) *AuthController {
	return &AuthController{
		auth:     auth,
		cookie:   cookie,
		validate: validator.New(),
		l:        l,
	}
}

func (ac *AuthController) Login(c *gin.Context) {
	var userLogin models.UserLogin

	if err := c.ShouldBindJSON(&userLogin); err != nil {
		errorJSON(c, errs.Wrap(errs.InvalidInput, "Invalid request body", err))
		return
	}

	if err := ac.validate.Struct(userLogin); err != nil {
		errorJSON(c, errs.Wrap(errs.InvalidInput, "Username and password are required", err))
		return
	}

	token, err := ac.auth.Login(userLogin.Username, userLogin.Password)
	if err != nil {
		if errs.Is(err, errs.Misconfigured) {
			ac.l.Error(err, "controller - Login")
		}
		errorJSON(c, err)
		return
	}

	ac.setCookie(c, token, ac.auth.TokenTTL())

	c.JSON(http.StatusOK, models.StatusResponse{Success: true})
}

// Logout only drops the cookie; an already issued token stays valid until it expires.
func (ac *AuthController) Logout(c *gin.Context) {
	ac.setCookie(c, "", 0)

	c.JSON(http.StatusOK, models.StatusResponse{Success: true})
}

func (ac *AuthController) CheckAuth(c *gin.Context) {
	c.JSON(http.StatusOK, ac.auth.Check(middlewares.SessionToken(c, ac.cookie.Name)))
}

// setCookie stores token for ttl; a zero ttl expires the cookie.
func (ac *AuthController) setCookie(c *gin.Context, token string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     ac.cookie.Name,
		Value:    token,
		Path:     "/",
		Secure:   ac.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
		cookie.Expires = time.Now().Add(ttl)
	} else {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}

	http.SetCookie(c.Writer, cookie)
}
