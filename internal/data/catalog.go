package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mediaorganizer/media-api/internal/validator"
)

// Kind identifies which catalog child table an item belongs to.
type Kind string

const (
	KindMovie Kind = "MOVIE"
	KindGame  Kind = "GAME"
	KindTV    Kind = "TV"
	KindMusic Kind = "MUSIC"
)

// Route returns the URL path segment for the kind.
func (k Kind) Route() string {
	return kindSchemas[k].route
}

// Label returns the human readable name for the kind, used in response messages.
func (k Kind) Label() string {
	return kindSchemas[k].label
}

type fieldType int

const (
	fieldText fieldType = iota
	fieldNumeric
	fieldInteger
)

// attrField describes one kind-specific attribute: its JSON key, the column
// it maps to, and how presence is tested. Text fields must be non-empty;
// numeric fields only need to be non-null, since zero is a legal value.
type attrField struct {
	name   string
	column string
	typ    fieldType
}

// kindSchema is the per-kind descriptor driving the two-table writer: the
// child table name and the ordered attribute list. Every attribute is
// required on create; updates accept any subset.
type kindSchema struct {
	table  string
	route  string
	label  string
	fields []attrField
}

var kindSchemas = map[Kind]kindSchema{
	KindMovie: {
		table: "movies",
		route: "movies",
		label: "movie",
		fields: []attrField{
			{name: "language", column: "language", typ: fieldText},
			{name: "rating", column: "rating", typ: fieldNumeric},
			{name: "leadActor", column: "lead_actor", typ: fieldText},
			{name: "leadActorCharacter", column: "lead_actor_character", typ: fieldText},
			{name: "supportingActor", column: "supporting_actor", typ: fieldText},
			{name: "supportingActorCharacter", column: "supporting_actor_character", typ: fieldText},
			{name: "director", column: "director", typ: fieldText},
		},
	},
	KindGame: {
		table: "games",
		route: "games",
		label: "game",
		fields: []attrField{
			{name: "publisher", column: "publisher", typ: fieldText},
			{name: "platform", column: "platform", typ: fieldText},
			{name: "metacritic", column: "metacritic", typ: fieldInteger},
			{name: "esrbRating", column: "esrb_rating", typ: fieldText},
		},
	},
	KindTV: {
		table: "tv_shows",
		route: "tv",
		label: "TV show",
		fields: []attrField{
			{name: "language", column: "language", typ: fieldText},
			{name: "rating", column: "rating", typ: fieldNumeric},
			{name: "numberOfEpisodes", column: "number_of_episodes", typ: fieldInteger},
			{name: "numberOfSeasons", column: "number_of_seasons", typ: fieldInteger},
			{name: "status", column: "status", typ: fieldText},
			{name: "network", column: "network", typ: fieldText},
		},
	},
	KindMusic: {
		table: "music_tracks",
		route: "music",
		label: "music track",
		fields: []attrField{
			{name: "artist", column: "artist", typ: fieldText},
			{name: "duration", column: "duration", typ: fieldInteger},
			{name: "producer", column: "producer", typ: fieldText},
			{name: "label", column: "label", typ: fieldText},
		},
	},
}

// mediaPatchFields lists the shared media columns that may be rewritten by a
// partial update. The id and the type tag are immutable.
var mediaPatchFields = []attrField{
	{name: "name", column: "name", typ: fieldText},
	{name: "overview", column: "overview", typ: fieldText},
	{name: "poster_path", column: "poster_path", typ: fieldText},
	{name: "release_date", column: "release_date", typ: fieldText},
	{name: "genre", column: "genre", typ: fieldText},
}

// mediaKeys are the JSON keys belonging to the shared media row itself.
var mediaKeys = []string{"mediaId", "name", "overview", "poster_path", "release_date", "genre", "type"}

// schemaFor returns the descriptor for a kind. Handlers only pass the
// declared Kind constants, so an unknown kind is a programming error.
func schemaFor(kind Kind) kindSchema {
	schema, ok := kindSchemas[kind]
	if !ok {
		panic("unknown catalog kind: " + string(kind))
	}
	return schema
}

// Item represents one catalog entry: the shared media row merged with its
// kind-specific child row. On the wire it is a single flat JSON object, the
// shape the original tables are joined into.
type Item struct {
	ID          int64
	Name        string
	Overview    string
	PosterPath  string
	ReleaseDate Date
	Genre       string
	Type        Kind
	Attrs       map[string]any
}

func (item Item) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(item.Attrs)+len(mediaKeys))
	for key, value := range item.Attrs {
		flat[key] = value
	}

	flat["mediaId"] = item.ID
	flat["name"] = item.Name
	flat["overview"] = item.Overview
	flat["poster_path"] = item.PosterPath
	flat["release_date"] = item.ReleaseDate
	flat["genre"] = item.Genre
	flat["type"] = item.Type

	return json.Marshal(flat)
}

func (item *Item) UnmarshalJSON(data []byte) error {
	var shared struct {
		ID          int64  `json:"mediaId"`
		Name        string `json:"name"`
		Overview    string `json:"overview"`
		PosterPath  string `json:"poster_path"`
		ReleaseDate Date   `json:"release_date"`
		Genre       string `json:"genre"`
		Type        Kind   `json:"type"`
	}

	if err := json.Unmarshal(data, &shared); err != nil {
		return err
	}

	// Everything that is not a shared media key is a kind-specific attribute.
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	for _, key := range mediaKeys {
		delete(flat, key)
	}

	item.ID = shared.ID
	item.Name = shared.Name
	item.Overview = shared.Overview
	item.PosterPath = shared.PosterPath
	item.ReleaseDate = shared.ReleaseDate
	item.Genre = shared.Genre
	item.Type = shared.Type
	item.Attrs = flat

	return nil
}

// Validate checks that an item carries every field required to create a
// catalog entry of the given kind, and that its type tag matches the kind.
func (item Item) Validate(v *validator.Validator, kind Kind) {
	v.Check(item.ID > 0, "mediaId", "must be provided and positive")

	v.Check(item.Name != "", "name", "must be provided")
	v.Check(len(item.Name) <= 500, "name", "must not be more than 500 bytes long")
	v.Check(item.Overview != "", "overview", "must be provided")
	v.Check(item.PosterPath != "", "poster_path", "must be provided")
	v.Check(!item.ReleaseDate.IsZero(), "release_date", "must be provided")
	v.Check(item.Genre != "", "genre", "must be provided")

	v.Check(item.Type != "", "type", "must be provided")
	if item.Type != "" && item.Type != kind {
		v.AddError("type", fmt.Sprintf("must be %q", kind))
	}

	for _, field := range schemaFor(kind).fields {
		value, ok := item.Attrs[field.name]

		switch field.typ {
		case fieldText:
			s, isString := value.(string)
			v.Check(ok && isString && s != "", field.name, "must be provided")
		default:
			// Presence test only: zero is a legal value for numeric fields.
			v.Check(ok && value != nil, field.name, "must be provided")
			if ok && value != nil {
				_, isNumber := value.(float64)
				v.Check(isNumber, field.name, "must be a number")
			}
		}
	}
}

// ErrInvalidDateFormat is returned when a date is not in YYYY-MM-DD form.
var ErrInvalidDateFormat = errors.New("invalid date format")

const dateLayout = "2006-01-02"

// Date is used to represent a calendar date in the format "YYYY-MM-DD".
type Date time.Time

func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Time(d).Format(dateLayout))), nil
}

func (d *Date) UnmarshalJSON(jsonValue []byte) error {
	var value string
	if err := json.Unmarshal(jsonValue, &value); err != nil {
		return ErrInvalidDateFormat
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return ErrInvalidDateFormat
	}

	*d = Date(t)

	return nil
}
