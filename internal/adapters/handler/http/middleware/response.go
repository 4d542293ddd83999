package middleware

import "github.com/gin-gonic/gin"

// ErrorBody is the JSON shape of every failed response. The web client reads
// "message"; "error" is kept for API consumers.
func ErrorBody(msg string) gin.H {
	return gin.H{"error": msg, "message": msg}
}
