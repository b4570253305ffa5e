// Package testutil holds what the integration suites share: seeded IDs, an
// API client that speaks the response envelope and a recording event
// handler.
package testutil

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var seedNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// SeededID derives a stable UUID from seed
func SeededID(seed string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(seed))
}

func CompanyID() uuid.UUID { return SeededID("test-company") }
func UserID() uuid.UUID    { return SeededID("test-user") }

// Eventually polls cond every interval and reports whether it held before
// timeout. cond is checked once more at the deadline.
func Eventually(cond func() bool, timeout, interval time.Duration) bool {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.After(timeout)
	for {
		if cond() {
			return true
		}
		select {
		case <-ticker.C:
		case <-deadline:
			return cond()
		}
	}
}
