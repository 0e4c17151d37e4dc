package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

// errMissingIdentity means a handler behind the auth middleware could
// not recover the caller's id from the request context. That is a
// wiring bug, not a client error, and surfaces as a 500.
var errMissingIdentity = errors.New("authenticated user id missing from request context")

func currentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, errMissingIdentity
	}

	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, errMissingIdentity
	}

	id, err := uuid.FromString(str)
	if err != nil {
		return uuid.Nil, errMissingIdentity
	}

	return id, nil
}
