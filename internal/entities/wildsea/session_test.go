package wildsea_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
)

func TestFirstCharacterBecomesActive(t *testing.T) {
	sess := wildsea.NewSession("sess_1", "The Marrow Docks")

	sess.AddCharacter("char_a")
	sess.AddCharacter("char_b")

	assert.Equal(t, "char_a", sess.ActiveCharacterID)
	assert.Equal(t, []string{"char_a", "char_b"}, sess.ActiveCharacterIDs)
}

func TestAddCharacterIsIdempotent(t *testing.T) {
	sess := wildsea.NewSession("sess_1", "crew")
	sess.AddCharacter("char_a")
	sess.AddCharacter("char_a")

	assert.Equal(t, []string{"char_a"}, sess.ActiveCharacterIDs)
}

func TestRemovingActivePromotesNext(t *testing.T) {
	sess := wildsea.NewSession("sess_1", "crew")
	sess.AddCharacter("char_a")
	sess.AddCharacter("char_b")
	sess.AddCharacter("char_c")

	sess.RemoveCharacter("char_a")
	assert.Equal(t, "char_b", sess.ActiveCharacterID)

	sess.RemoveCharacter("char_b")
	assert.Equal(t, "char_c", sess.ActiveCharacterID)

	sess.RemoveCharacter("char_c")
	assert.Empty(t, sess.ActiveCharacterID)
	assert.Empty(t, sess.ActiveCharacterIDs)
}

func TestRemovingInactiveKeepsActive(t *testing.T) {
	sess := wildsea.NewSession("sess_1", "crew")
	sess.AddCharacter("char_a")
	sess.AddCharacter("char_b")

	sess.RemoveCharacter("char_b")
	assert.Equal(t, "char_a", sess.ActiveCharacterID)
}

func TestRemovingUnknownCharacterIsNoop(t *testing.T) {
	sess := wildsea.NewSession("sess_1", "crew")
	sess.AddCharacter("char_a")

	sess.RemoveCharacter("char_zzz")
	assert.Equal(t, []string{"char_a"}, sess.ActiveCharacterIDs)
}
