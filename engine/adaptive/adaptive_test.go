package adaptive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordOutcome_Clamps(t *testing.T) {
	e := New()
	assert.Equal(t, 1.0, e.Modifier)

	e.RecordOutcome(true)
	assert.InDelta(t, 1.1, e.Modifier, 0.0001)
	e.RecordOutcome(false)
	e.RecordOutcome(false)
	assert.InDelta(t, 0.9, e.Modifier, 0.0001)

	for i := 0; i < 30; i++ {
		e.RecordOutcome(true)
	}
	assert.Equal(t, ModifierCeiling, e.Modifier)

	for i := 0; i < 30; i++ {
		e.RecordOutcome(false)
	}
	assert.Equal(t, ModifierFloor, e.Modifier)
}

func TestPlaystyle_MajorityVote(t *testing.T) {
	e := New()
	assert.Equal(t, StyleBalanced, e.Playstyle(), "an empty log is balanced")

	e.Track("combat", "attack")
	e.Track("combat", "skill")
	e.Track("explore", "move")
	assert.Equal(t, StyleWarrior, e.Playstyle())

	e.Track("explore", "move")
	assert.Equal(t, StyleBalanced, e.Playstyle(), "ties fall back to balanced")

	e.Track("social", "talk")
	e.Track("social", "talk")
	e.Track("social", "shop")
	assert.Equal(t, StyleSocial, e.Playstyle())
}

func TestChallengeRating(t *testing.T) {
	e := New()
	assert.InDelta(t, 6.0, e.ChallengeRating(3, 2), 0.0001)

	e.Modifier = 1.5
	assert.InDelta(t, 9.0, e.ChallengeRating(3, 2), 0.0001)
}

func TestSuggest_TracksPlaystyle(t *testing.T) {
	e := New()
	balanced := e.Suggest()

	e.Track("explore", "move")
	assert.NotEqual(t, balanced, e.Suggest())
}

func TestDescribe(t *testing.T) {
	e := New()
	lines := e.Describe()

	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "balanced")
	assert.Contains(t, lines[1], "1.0")
}

func TestRebind(t *testing.T) {
	e := &Engine{}
	e.Rebind()
	assert.Equal(t, 1.0, e.Modifier)

	e.Modifier = 0.7
	e.Rebind()
	assert.Equal(t, 0.7, e.Modifier, "a loaded modifier is kept")
}
