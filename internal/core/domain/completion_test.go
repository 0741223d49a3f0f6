package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
)

func TestNewCompletion(t *testing.T) {
	t.Run("Truncates to midnight UTC", func(t *testing.T) {
		loc := time.FixedZone("CET", 3600)
		stamp := time.Date(2024, time.March, 10, 0, 30, 0, 0, loc) // 2024-03-09 23:30 UTC

		c := domain.NewCompletion("h1", "u1", stamp)

		assert.Equal(t, time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC), c.CompletedOn)
		assert.Equal(t, 1, c.Version)
		assert.Nil(t, c.DeletedAt)
	})

	t.Run("Same day at different hours collides on the same date", func(t *testing.T) {
		morning := domain.NewCompletion("h1", "u1", time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC))
		evening := domain.NewCompletion("h1", "u1", time.Date(2024, time.March, 10, 22, 0, 0, 0, time.UTC))

		assert.Equal(t, morning.CompletedOn, evening.CompletedOn)
	})
}

func TestCompletion_Validate(t *testing.T) {
	valid := domain.NewCompletion("h1", "u1", time.Now().UTC())
	require.NoError(t, valid.Validate())

	t.Run("Missing habit id", func(t *testing.T) {
		c := domain.NewCompletion(" ", "u1", time.Now().UTC())
		assert.Error(t, c.Validate())
	})

	t.Run("Missing user id", func(t *testing.T) {
		c := domain.NewCompletion("h1", "", time.Now().UTC())
		assert.Error(t, c.Validate())
	})

	t.Run("Zero date", func(t *testing.T) {
		c := &domain.Completion{HabitID: "h1", UserID: "u1"}
		assert.Error(t, c.Validate())
	})
}
