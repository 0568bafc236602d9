package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinPassagesConcatenatesInRankOrder(t *testing.T) {
	got := JoinPassages([]string{"first passage", "second passage", "third passage"})
	assert.Equal(t, "first passage\n---\nsecond passage\n---\nthird passage", got)
}

func TestJoinPassagesSkipsBlankEntries(t *testing.T) {
	got := JoinPassages([]string{"", "only passage", "   "})
	assert.Equal(t, "only passage", got)
}

func TestJoinPassagesReturnsSentinelWhenEmpty(t *testing.T) {
	assert.Equal(t, NoContentSentinel, JoinPassages(nil))
	assert.Equal(t, NoContentSentinel, JoinPassages([]string{"", "  "}))
}
