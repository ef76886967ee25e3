package export_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftcrew/wildsea-api/internal/entities/wildsea"
	"github.com/driftcrew/wildsea-api/internal/errors"
	"github.com/driftcrew/wildsea-api/internal/export"
)

func TestCharacterRoundTripClearsIdentity(t *testing.T) {
	char := wildsea.NewCharacter("char_original")
	char.SessionID = "sess_original"
	char.Name = "Varek"
	char.Bloodline = "Ardent"
	char.Skills["Brace"] = 2
	char.CreatedAt = 1700000000

	data, err := export.EncodeCharacter(char)
	require.NoError(t, err)

	decoded, err := export.DecodeCharacter(data)
	require.NoError(t, err)

	assert.Empty(t, decoded.ID)
	assert.Empty(t, decoded.SessionID)
	assert.Zero(t, decoded.CreatedAt)
	assert.Equal(t, "Varek", decoded.Name)
	assert.Equal(t, "Ardent", decoded.Bloodline)
	assert.Equal(t, 2, decoded.Skills["Brace"])
	assert.Equal(t, wildsea.BaselineLanguageRank, decoded.Languages[wildsea.BaselineLanguage])
}

func TestShipRoundTripClearsIdentity(t *testing.T) {
	ship := wildsea.NewShip("ship_original")
	ship.Name = "The Bower Jack"
	ship.Size = &wildsea.Part{Name: "Medium", Stakes: 2}

	data, err := export.EncodeShip(ship)
	require.NoError(t, err)

	decoded, err := export.DecodeShip(data)
	require.NoError(t, err)

	assert.Empty(t, decoded.ID)
	assert.Equal(t, "The Bower Jack", decoded.Name)
	require.NotNil(t, decoded.Size)
	assert.Equal(t, "Medium", decoded.Size.Name)
}

func TestDecodeMalformedDocument(t *testing.T) {
	_, err := export.DecodeCharacter([]byte("{not json"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestDecodeWrongVersion(t *testing.T) {
	_, err := export.DecodeCharacter([]byte(`{"version":"2.0","character":{"id":"x"}}`))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestDecodeWrongEntityKind(t *testing.T) {
	ship := wildsea.NewShip("ship_a")
	data, err := export.EncodeShip(ship)
	require.NoError(t, err)

	_, err = export.DecodeCharacter(data)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}
