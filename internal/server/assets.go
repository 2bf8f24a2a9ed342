package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmersconnect/farmers-connect-ui/assets"
)

// SetupAssets configures static asset serving for the Gin router
func SetupAssets(r *gin.Engine) {
	r.StaticFS("/assets", http.FS(assets.Assets))
}
