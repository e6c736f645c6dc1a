package middleware

import (
	"net/http"

	token "github.com/pricile448/amcb-sub000/utils"
	"github.com/gin-gonic/gin"
)

type User struct {
	Id    string
	Email string
}

// Authentication validates the bearer token from the "token" header and
// stores the caller's identity in the request context.
func Authentication(c *gin.Context) {
	clientToken := c.Request.Header.Get("token")
	if clientToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Aucun jeton d'authentification fourni",
		})
		c.Abort()
		return
	}
	claims, err := token.ValidateToken(clientToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Session expirée, veuillez vous reconnecter",
		})
		c.Abort()
		return
	}
	c.Set("user", User{Id: claims.Id, Email: claims.Email})
	c.Next()
}
