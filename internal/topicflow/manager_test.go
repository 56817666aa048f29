package topicflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longQuestion = "I have been thinking a lot about how we manage the herd through winter and whether " +
	"there is a better way to plan the feed budget for next season, what would you suggest?"

func TestUpdatePrefersRelatedTopic(t *testing.T) {
	m := NewManager()
	m.Update("feed costs", []string{"feed costs"})
	s := m.Snapshot()
	require.Equal(t, "feed costs", s.CurrentTopic)
	require.Len(t, s.Transitions, 1)
	assert.True(t, s.Transitions[0].Smooth)

	m.Update("regs and pasture", []string{"regulations", "pasture"})
	s = m.Snapshot()
	assert.Equal(t, "pasture", s.CurrentTopic, "pasture is adjacent to feed costs")
	assert.Equal(t, []string{TopicGeneral, "feed costs"}, s.PreviousTopics)
	require.Len(t, s.BranchPoints, 1)
	assert.Equal(t, []string{"regulations", "pasture"}, s.BranchPoints[0].Alternatives)
}

func TestUpdateFallsBackToFirstDetected(t *testing.T) {
	m := NewManager()
	m.Update("methane", []string{"emissions"})
	s := m.Snapshot()
	assert.Equal(t, "emissions", s.CurrentTopic)
	assert.False(t, s.Transitions[0].Smooth)
}

func TestUpdateKeepsTopicWhenNothingDetected(t *testing.T) {
	m := NewManager()
	m.Update("feed costs", []string{"feed costs"})
	m.Update("hmm", nil)
	s := m.Snapshot()
	assert.Equal(t, "feed costs", s.CurrentTopic)
	assert.Equal(t, 2, s.Depth)
	assert.Len(t, s.Transitions, 1)
}

func TestMomentum(t *testing.T) {
	assert.Equal(t, MomentumBuilding, momentum(longQuestion))
	assert.Equal(t, MomentumDeclining, momentum("ok sure"))
	assert.Equal(t, MomentumDeclining, momentum("well I guess the grass is growing fine enough this month, not much else"))
	assert.Equal(t, MomentumSteady, momentum("the grass is growing fine this month and the cows look content enough to me"))
}

func TestMomentumIsOrderSensitive(t *testing.T) {
	a, b := NewManager(), NewManager()
	a.Update("ok", nil)
	a.Update(longQuestion, nil)
	b.Update(longQuestion, nil)
	b.Update("ok", nil)
	assert.NotEqual(t, a.Snapshot().Momentum, b.Snapshot().Momentum)
}

func TestShouldPivot(t *testing.T) {
	m := NewManager()
	for i := 0; i < 4; i++ {
		m.Update("ok", nil)
	}
	assert.True(t, m.ShouldPivot(), "declining past depth 3")

	m = NewManager()
	for i := 0; i < 10; i++ {
		m.Update(longQuestion, nil)
	}
	assert.False(t, m.ShouldPivot(), "never while building")

	steady := strings.Repeat("grass grows well here ", 3)
	m = NewManager()
	for i := 0; i < 5; i++ {
		m.Update(steady, nil)
	}
	assert.False(t, m.ShouldPivot())
	m.Update(steady, nil)
	assert.True(t, m.ShouldPivot())
}

func TestSuggestNextTopic(t *testing.T) {
	m := NewManager()
	next, ok := m.SuggestNextTopic()
	require.True(t, ok)
	assert.Equal(t, "feed costs", next)

	m.Update("weather", []string{"weather"})
	m.Update("pasture", []string{"pasture"})
	next, ok = m.SuggestNextTopic()
	require.True(t, ok)
	assert.Equal(t, "feed costs", next)

	m = NewManager()
	m.state.CurrentTopic = "nowhere"
	_, ok = m.SuggestNextTopic()
	assert.False(t, ok)
}

func TestDepthLevel(t *testing.T) {
	m := NewManager()
	assert.Equal(t, DepthSurface, m.DepthLevel())
	for i := 0; i < 3; i++ {
		m.Update("x", nil)
	}
	assert.Equal(t, DepthExploring, m.DepthLevel())
	for i := 0; i < 3; i++ {
		m.Update("x", nil)
	}
	assert.Equal(t, DepthDeep, m.DepthLevel())
}

func TestSnapshotIsIndependent(t *testing.T) {
	m := NewManager()
	m.Update("x", []string{"feed costs", "pasture"})
	s := m.Snapshot()
	s.BranchPoints[0].Alternatives[0] = "changed"
	s.PreviousTopics[0] = "changed"
	fresh := m.Snapshot()
	assert.Equal(t, "feed costs", fresh.BranchPoints[0].Alternatives[0])
	assert.Equal(t, TopicGeneral, fresh.PreviousTopics[0])
}
