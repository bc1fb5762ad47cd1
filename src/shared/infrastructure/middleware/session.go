package middleware

import (
	"log"
	"net/http"

	"pos/src/shared/domain/session"

	"github.com/gin-gonic/gin"
)

// SessionKey clave bajo la cual se guarda la sesión en el contexto de gin
const SessionKey = "session"

// RequireSession verifica el bearer token y deja la sesión del operador en el contexto
func RequireSession(verifier *session.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := verifier.FromHeader(c.GetHeader("Authorization"))
		if err != nil {
			log.Printf("⚠️  Rejected request without valid session: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(SessionKey, sess)
		c.Next()
	}
}

// SessionFrom obtiene la sesión cargada por RequireSession
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	value, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}
