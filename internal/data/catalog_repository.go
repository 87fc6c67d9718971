package data

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mediaorganizer/media-api/internal/database"
)

//go:embed queries/media/insert.sql
var insertMediaSQL string

//go:embed queries/media/delete.sql
var deleteMediaSQL string

// mediaColumns is the shared column list selected from the media table,
// in Item scan order.
const mediaColumns = "m.media_id, m.name, m.overview, m.poster_path, m.release_date, m.genre, m.type"

// CatalogRepository manages the set of APIs for catalog database access.
// Each catalog entry spans two tables, a shared media row and a
// kind-specific child row, and every write keeps the pair consistent
// inside a single transaction.
type CatalogRepository struct {
	DB database.Pool
}

// Create inserts the media row and the kind-specific child row in one
// transaction. If either insert fails nothing persists.
func (r CatalogRepository) Create(item *Item) error {
	schema := schemaFor(item.Type)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertMediaSQL,
		item.ID,
		item.Name,
		item.Overview,
		item.PosterPath,
		time.Time(item.ReleaseDate),
		item.Genre,
		string(item.Type),
	)
	if err != nil {
		return err
	}

	columns := make([]string, 0, len(schema.fields)+1)
	placeholders := make([]string, 0, len(schema.fields)+1)
	args := make([]any, 0, len(schema.fields)+1)

	columns = append(columns, "media_id")
	placeholders = append(placeholders, "$1")
	args = append(args, item.ID)

	for _, field := range schema.fields {
		columns = append(columns, field.column)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
		args = append(args, field.arg(item.Attrs[field.name]))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		schema.table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	_, err = tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Get fetches one catalog entry by id, joining the media row with its
// kind-specific child row.
func (r CatalogRepository) Get(kind Kind, id int64) (*Item, error) {
	schema := schemaFor(kind)

	query := fmt.Sprintf("SELECT %s, %s FROM media m JOIN %s c ON m.media_id = c.media_id WHERE m.media_id = $1",
		mediaColumns,
		schema.childColumns(),
		schema.table,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	item, err := scanItem(schema, r.DB.QueryRow(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return item, nil
}

// GetAll fetches a page of catalog entries of one kind, optionally filtered
// by name and genre.
func (r CatalogRepository) GetAll(kind Kind, name, genre string, filters database.Filters) ([]*Item, database.Metadata, error) {
	schema := schemaFor(kind)

	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s, %s
		FROM media m
		JOIN %s c ON m.media_id = c.media_id
		WHERE (to_tsvector('simple', m.name) @@ plainto_tsquery('simple', $1) OR $1 = '')
		AND (m.genre = $2 OR $2 = '')
		ORDER BY m.%s %s, m.media_id ASC
		LIMIT $3 OFFSET $4`,
		mediaColumns,
		schema.childColumns(),
		schema.table,
		filters.SortColumn(),
		filters.SortDirection(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.DB.Query(ctx, query, name, genre, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, database.Metadata{}, err
	}
	defer rows.Close()

	totalRecords := 0
	items := []*Item{}

	for rows.Next() {
		item, err := scanItem(schema, rows, &totalRecords)
		if err != nil {
			return nil, database.Metadata{}, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, database.Metadata{}, err
	}

	metadata := database.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return items, metadata, nil
}

// Update rewrites only the supplied fields, splitting them between the media
// table and the kind-specific child table. A table with nothing to set gets
// no statement at all; if neither table has anything to set the update is a
// no-op that reports success. Updating an id that does not exist also
// reports success, with zero rows affected.
func (r CatalogRepository) Update(kind Kind, id int64, attrs map[string]any) error {
	schema := schemaFor(kind)

	mediaSet, mediaArgs := assignments(mediaPatchFields, attrs)
	childSet, childArgs := assignments(schema.fields, attrs)

	if len(mediaSet) == 0 && len(childSet) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if len(mediaSet) > 0 {
		query := fmt.Sprintf("UPDATE media SET %s WHERE media_id = $%d",
			strings.Join(mediaSet, ", "), len(mediaArgs)+1)

		_, err = tx.Exec(ctx, query, append(mediaArgs, id)...)
		if err != nil {
			return err
		}
	}

	if len(childSet) > 0 {
		query := fmt.Sprintf("UPDATE %s SET %s WHERE media_id = $%d",
			schema.table, strings.Join(childSet, ", "), len(childArgs)+1)

		_, err = tx.Exec(ctx, query, append(childArgs, id)...)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete removes the child row and then the media row in one transaction.
// Child first, so the parent is never left referenced. Deleting an id that
// does not exist reports success.
func (r CatalogRepository) Delete(kind Kind, id int64) error {
	schema := schemaFor(kind)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE media_id = $1", schema.table), id)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, deleteMediaSQL, id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// childColumns returns the child table's attribute columns in schema order,
// aliased to the join.
func (s kindSchema) childColumns() string {
	columns := make([]string, len(s.fields))
	for i, field := range s.fields {
		columns[i] = "c." + field.column
	}
	return strings.Join(columns, ", ")
}

// arg converts a decoded JSON value into the driver argument for the field.
func (f attrField) arg(value any) any {
	if f.typ == fieldInteger {
		if n, ok := value.(float64); ok {
			return int64(n)
		}
	}
	return value
}

// present reports whether a patch supplies a usable value for the field:
// text fields must be non-empty strings, numeric fields must be non-null.
func (f attrField) present(value any, ok bool) bool {
	if !ok || value == nil {
		return false
	}

	switch f.typ {
	case fieldText:
		s, isString := value.(string)
		return isString && s != ""
	default:
		_, isNumber := value.(float64)
		return isNumber
	}
}

// assignments builds the SET clause fragments and argument list for the
// fields a patch actually supplies.
func assignments(fields []attrField, attrs map[string]any) ([]string, []any) {
	var set []string
	var args []any

	for _, field := range fields {
		value, ok := attrs[field.name]
		if !field.present(value, ok) {
			continue
		}

		set = append(set, fmt.Sprintf("%s = $%d", field.column, len(args)+1))
		args = append(args, field.arg(value))
	}

	return set, args
}

// scanItem scans one joined row into an Item. When totalRecords is given the
// row is expected to start with a window count, as produced by GetAll.
func scanItem(schema kindSchema, row pgx.Row, totalRecords ...*int) (*Item, error) {
	var (
		item        Item
		releaseDate time.Time
		kind        string
	)

	dests := make([]any, 0, len(schema.fields)+8)
	for _, total := range totalRecords {
		dests = append(dests, total)
	}
	dests = append(dests, &item.ID, &item.Name, &item.Overview, &item.PosterPath, &releaseDate, &item.Genre, &kind)

	attrDests := make([]any, len(schema.fields))
	for i, field := range schema.fields {
		switch field.typ {
		case fieldText:
			attrDests[i] = new(string)
		case fieldNumeric:
			attrDests[i] = new(float64)
		case fieldInteger:
			attrDests[i] = new(int64)
		}
	}
	dests = append(dests, attrDests...)

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	item.ReleaseDate = Date(releaseDate)
	item.Type = Kind(kind)
	item.Attrs = make(map[string]any, len(schema.fields))

	for i, field := range schema.fields {
		switch dest := attrDests[i].(type) {
		case *string:
			item.Attrs[field.name] = *dest
		case *float64:
			item.Attrs[field.name] = *dest
		case *int64:
			item.Attrs[field.name] = *dest
		}
	}

	return &item, nil
}
