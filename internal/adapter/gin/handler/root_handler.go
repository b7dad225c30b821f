package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TeapotMessage is the fixed body of the root liveness route.
const TeapotMessage = "Nothing to see here, only a teapot minding its business..."

// Teapot handles GET /. It answers 418 without touching the store.
func Teapot(c *gin.Context) {
	c.JSON(http.StatusTeapot, gin.H{"message": TeapotMessage})
}
