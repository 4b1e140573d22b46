package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseG(t *testing.T) {
	arr := []int{1, 2, 3, 4}
	reversed := ReverseG(arr)

	assert.Equal(t, []int{4, 3, 2, 1}, reversed)
	assert.Equal(t, []int{1, 2, 3, 4}, arr, "input must stay untouched")
	assert.Empty(t, ReverseG([]int{}))
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 28.28, RoundFloat(28.284271, 2))
	assert.Equal(t, 20.0, RoundFloat(19.9999999, 3))
}
