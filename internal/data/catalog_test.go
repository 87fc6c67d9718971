package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaorganizer/media-api/internal/validator"
)

const movieJSON = `{
	"mediaId": 1,
	"name": "X",
	"overview": "Y",
	"poster_path": "p",
	"release_date": "2020-01-01",
	"genre": "Drama",
	"type": "MOVIE",
	"language": "en",
	"rating": 7.5,
	"leadActor": "A",
	"leadActorCharacter": "B",
	"supportingActor": "C",
	"supportingActorCharacter": "D",
	"director": "E"
}`

func TestItemUnmarshalSplitsSharedAndKindFields(t *testing.T) {
	var item Item
	err := json.Unmarshal([]byte(movieJSON), &item)
	require.NoError(t, err)

	assert.Equal(t, int64(1), item.ID)
	assert.Equal(t, "X", item.Name)
	assert.Equal(t, "Y", item.Overview)
	assert.Equal(t, "p", item.PosterPath)
	assert.Equal(t, "Drama", item.Genre)
	assert.Equal(t, KindMovie, item.Type)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Time(item.ReleaseDate))

	// Shared keys must not leak into the attribute map.
	assert.NotContains(t, item.Attrs, "name")
	assert.NotContains(t, item.Attrs, "type")

	assert.Equal(t, "en", item.Attrs["language"])
	assert.Equal(t, 7.5, item.Attrs["rating"])
	assert.Equal(t, "E", item.Attrs["director"])
}

func TestItemMarshalFlattensToOneObject(t *testing.T) {
	item := Item{
		ID:          1,
		Name:        "X",
		Overview:    "Y",
		PosterPath:  "p",
		ReleaseDate: Date(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
		Genre:       "Drama",
		Type:        KindMovie,
		Attrs:       map[string]any{"language": "en", "rating": 7.5},
	}

	js, err := json.Marshal(item)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(js, &flat))

	assert.Equal(t, float64(1), flat["mediaId"])
	assert.Equal(t, "X", flat["name"])
	assert.Equal(t, "2020-01-01", flat["release_date"])
	assert.Equal(t, "MOVIE", flat["type"])
	assert.Equal(t, "en", flat["language"])
	assert.Equal(t, 7.5, flat["rating"])
}

func TestDateRejectsBadFormat(t *testing.T) {
	var d Date
	err := json.Unmarshal([]byte(`"01/02/2020"`), &d)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	err = json.Unmarshal([]byte(`12345`), &d)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func validMovieItem(t *testing.T) Item {
	t.Helper()

	var item Item
	require.NoError(t, json.Unmarshal([]byte(movieJSON), &item))
	return item
}

func TestValidateAcceptsCompleteItem(t *testing.T) {
	item := validMovieItem(t)

	vld := validator.New()
	item.Validate(vld, KindMovie)

	assert.True(t, vld.Valid(), "unexpected errors: %v", vld.Errors)
}

func TestValidateRejectsTypeMismatch(t *testing.T) {
	item := validMovieItem(t)

	vld := validator.New()
	item.Validate(vld, KindGame)

	assert.False(t, vld.Valid())
	assert.Contains(t, vld.Errors["type"], `"GAME"`)
}

func TestValidateRejectsMissingFields(t *testing.T) {
	item := validMovieItem(t)
	item.Overview = ""
	delete(item.Attrs, "director")

	vld := validator.New()
	item.Validate(vld, KindMovie)

	assert.Contains(t, vld.Errors, "overview")
	assert.Contains(t, vld.Errors, "director")
}

func TestValidateZeroIsLegalForNumericFields(t *testing.T) {
	item := Item{
		ID:          2,
		Name:        "G",
		Overview:    "O",
		PosterPath:  "p",
		ReleaseDate: Date(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)),
		Genre:       "Action",
		Type:        KindGame,
		Attrs: map[string]any{
			"publisher":  "Pub",
			"platform":   "PC",
			"metacritic": float64(0),
			"esrbRating": "M",
		},
	}

	vld := validator.New()
	item.Validate(vld, KindGame)

	assert.True(t, vld.Valid(), "unexpected errors: %v", vld.Errors)
}

func TestValidateRejectsNullNumericField(t *testing.T) {
	item := validMovieItem(t)
	item.Attrs["rating"] = nil

	vld := validator.New()
	item.Validate(vld, KindMovie)

	assert.Contains(t, vld.Errors, "rating")
}
