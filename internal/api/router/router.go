package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/image-prompter/internal/api/handlers/imagefetch"
	"github.com/aliskhannn/image-prompter/internal/api/handlers/prompt"
	"github.com/aliskhannn/image-prompter/internal/middleware"
)

func Setup(ph *prompt.Handler, fh *imagefetch.Handler) *ginext.Engine {
	r := ginext.New()

	r.Use(middleware.CORSMiddleware())
	r.Use(ginext.Logger())
	r.Use(ginext.Recovery())

	api := r.Group("/api")

	api.POST("/fetch-image", fh.Fetch)        // proxying a remote image
	api.POST("/generate-prompt", ph.Generate) // generating a prompt from an image
	api.GET("/health", ph.Health)             // liveness probe

	return r
}
