package concurrency_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wheelibin/homesync/internal/concurrency"
)

func Test_ThrottledWorker(t *testing.T) {

	t.Run("should run every job and count successes", func(t *testing.T) {
		ran := []string{}
		worker := concurrency.NewThrottledWorker(time.Millisecond, func(arg string) error {
			ran = append(ran, arg)
			if arg == "bad" {
				return errors.New("rejected")
			}
			return nil
		})

		succeeded := worker.Run([]string{"a", "bad", "b"})

		assert.Equal(t, []string{"a", "bad", "b"}, ran)
		assert.Equal(t, 2, succeeded)
	})

	t.Run("no jobs | should return zero", func(t *testing.T) {
		worker := concurrency.NewThrottledWorker(time.Millisecond, func(string) error { return nil })
		assert.Equal(t, 0, worker.Run(nil))
	})
}
