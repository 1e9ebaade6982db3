package tz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	winter := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	summer := time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "15/01/2024 10:30", Format(winter))
	assert.Equal(t, "15/07/2024 11:30", Format(summer))
	assert.Empty(t, Format(time.Time{}))
}
