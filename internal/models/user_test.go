package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserDestinations(t *testing.T) {
	t.Run("unions token set with legacy token", func(t *testing.T) {
		u := &User{FCMTokens: []string{"t1", "t2"}, FCMToken: "t3"}
		assert.Equal(t, []string{"t1", "t2", "t3"}, u.Destinations())
	})

	t.Run("deduplicates legacy token already in the set", func(t *testing.T) {
		u := &User{FCMTokens: []string{"t1", "t2"}, FCMToken: "t2"}
		assert.Equal(t, []string{"t1", "t2"}, u.Destinations())
	})

	t.Run("drops empty and repeated tokens", func(t *testing.T) {
		u := &User{FCMTokens: []string{"t1", "", "t1"}}
		assert.Equal(t, []string{"t1"}, u.Destinations())
	})

	t.Run("empty when nothing is registered", func(t *testing.T) {
		u := &User{}
		assert.Empty(t, u.Destinations())
	})
}
