package sharing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// IdentityHeader carries the acting user's id on item, booking and request
// endpoints. User directory endpoints do not require it.
const IdentityHeader = "X-Sharer-User-Id"

// CallerID extracts the identity header. The second return value is false
// when the header is missing or malformed; the handler should answer 400.
func CallerID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(IdentityHeader)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// MissingIdentity answers 400 for an absent or malformed identity header.
func MissingIdentity(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": IdentityHeader + " header is required"})
}

// JSONError writes the response for a service-layer error: taxonomy errors
// become 4xx with their reason type, everything else a generic 500.
func JSONError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "reason": Type(err)})
}

// PageFromQuery parses the from/size query window. Omitting both yields the
// unbounded window; supplying either validates both.
func PageFromQuery(c *gin.Context) (Page, error) {
	fromStr, fromSet := c.GetQuery("from")
	sizeStr, sizeSet := c.GetQuery("size")
	if !fromSet && !sizeSet {
		return All, nil
	}

	page := All
	if fromSet {
		parsed, err := strconv.Atoi(fromStr)
		if err != nil {
			return Page{}, NewValidationError("from must be an integer")
		}
		if parsed < 0 {
			return Page{}, NewValidationError("from must not be negative")
		}
		page.From = parsed
	}

	if sizeSet {
		parsed, err := strconv.Atoi(sizeStr)
		if err != nil {
			return Page{}, NewValidationError("size must be an integer")
		}
		if parsed <= 0 {
			return Page{}, NewValidationError("size must be positive")
		}
		page.Size = parsed
	}

	return page, nil
}
