// Package gin provides a Gin adapter for the checkout API. It is a thin
// wrapper over the shared handlers in the parent http package, for
// merchants embedding the checkout in a Gin backend.
package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkouthttp "github.com/pymstr/checkout-go/http"
)

// Register mounts the checkout routes on a Gin router:
//
//	GET  /sessions/:id          current snapshot
//	POST /sessions/:id/intents  apply a named intent
//	GET  /sessions/:id/stream   WebSocket snapshot stream
func Register(r gin.IRouter, registry checkouthttp.SessionRegistry) {
	r.GET("/sessions/:id", func(c *gin.Context) {
		m, ok := registry.Lookup(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
			return
		}
		checkouthttp.HandleSnapshot(c.Writer, m)
	})

	r.POST("/sessions/:id/intents", func(c *gin.Context) {
		m, ok := registry.Lookup(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
			return
		}
		checkouthttp.HandleIntent(c.Writer, c.Request, m)
	})

	r.GET("/sessions/:id/stream", func(c *gin.Context) {
		m, ok := registry.Lookup(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
			return
		}
		checkouthttp.HandleStream(c.Writer, c.Request, m)
	})
}
