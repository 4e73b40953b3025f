package media

import (
	"errors"
	"testing"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestCleanerDestroys(t *testing.T) {
	mem := NewMemory()
	c := NewCleaner(mem, logger.Discard(), time.Second)

	c.Schedule("canteen_orders/a", "order deleted")
	c.Schedule("", "no asset")
	c.Wait()

	assert.Equal(t, []string{"canteen_orders/a"}, mem.Destroyed())
}

func TestCleanerSwallowsFailures(t *testing.T) {
	mem := NewMemory()
	mem.DestroyErr = errors.New("provider down")
	c := NewCleaner(mem, logger.Discard(), 0)

	assert.NotPanics(t, func() {
		c.Schedule("x", "qr replaced")
		c.Wait()
	})
	assert.Equal(t, []string{"x"}, mem.Destroyed())
}
