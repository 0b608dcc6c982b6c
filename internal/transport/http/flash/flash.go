// Package flash carries one-shot user messages across a redirect.
package flash

import (
	"github.com/gin-gonic/gin"
)

// Store queues messages for the next page render of the same browser.
type Store interface {
	Add(c *gin.Context, message string) error
	// Pop returns pending messages, oldest first, and forgets them.
	Pop(c *gin.Context) ([]string, error)
}

const contextKey = "flash_messages"
