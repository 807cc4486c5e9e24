package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpRequired(t *testing.T) {
	tests := []struct {
		level uint32
		want  uint64
	}{
		{0, 60},
		{1, 60},
		{2, 148},
		{3, 250},
		{4, 364},
		{5, 486},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpRequired(tt.level), "level %d", tt.level)
	}
}

func TestExpRequired_StrictlyIncreasing(t *testing.T) {
	require.GreaterOrEqual(t, ExpRequired(1), uint64(1))
	for level := uint32(1); level < 2000; level++ {
		assert.Greater(t, ExpRequired(level+1), ExpRequired(level), "level %d", level)
	}
}

func TestCommitExp(t *testing.T) {
	tests := []struct {
		commits uint32
		want    uint64
	}{
		{0, 0},
		{1, 20},
		{19, 380},
		{20, 400},
		{21, 404},
		{25, 420},
		{100, 720},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CommitExp(tt.commits), "commits %d", tt.commits)
	}
}

func TestMarginalCommitExp_SumsToDailyTotal(t *testing.T) {
	var sum uint64
	for n := uint32(1); n <= 40; n++ {
		sum += MarginalCommitExp(n)
		assert.Equal(t, CommitExp(n), sum, "after %d commits", n)
	}
	assert.Zero(t, MarginalCommitExp(0))
	assert.Equal(t, uint64(20), MarginalCommitExp(20))
	assert.Equal(t, uint64(4), MarginalCommitExp(21))
}

func TestStreakBonus(t *testing.T) {
	tests := []struct {
		days uint32
		want uint64
	}{
		{0, 0}, {1, 0},
		{2, 5}, {6, 5},
		{7, 15}, {13, 15},
		{14, 30}, {29, 30},
		{30, 50}, {365, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StreakBonus(tt.days), "streak %d", tt.days)
	}
}

func TestFlatSources(t *testing.T) {
	assert.Equal(t, uint64(0), CodingMinuteExp(0))
	assert.Equal(t, uint64(90), CodingMinuteExp(90))
	assert.Equal(t, uint64(60), FocusSessionExp(2))
}
