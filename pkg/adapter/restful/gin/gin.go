// Package gin aliases the gin-gonic engine types, so the command and
// configuration layers can instantiate the local REST surface without
// importing the gin-gonic module path themselves.
package gin

import "github.com/gin-gonic/gin"

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// New instantiates a gin engine with the given middlewares, without
// the default logger and recovery middlewares.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

// Logger returns the gin-gonic request logging middleware.
func Logger() HandlerFunc {
	return gin.Logger()
}

// Recovery returns the gin-gonic panic recovery middleware.
func Recovery() HandlerFunc {
	return gin.Recovery()
}
