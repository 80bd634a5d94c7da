// Package guard forces test mode for packages that import it, so test runs
// never start real network listeners or workers.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("BEDOLAGA_TEST_MODE") == "" {
			_ = os.Setenv("BEDOLAGA_TEST_MODE", "1")
		}
	})
}
