// Package guard forces test mode on when imported, keeping package tests from
// starting real runtimes. Blank-import it from _test.go files.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("ADTS_TEST_MODE") == "" {
			_ = os.Setenv("ADTS_TEST_MODE", "1")
		}
	})
}
