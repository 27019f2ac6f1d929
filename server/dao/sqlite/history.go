package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"github.com/scala-steward/diesel-core/server/dao"
)

type historyDB struct {
	db *sql.DB
}

func (repo *historyDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS history (
		id TEXT NOT NULL PRIMARY KEY,
		axiom TEXT NOT NULL,
		text TEXT NOT NULL,
		success INTEGER NOT NULL,
		ambiguous INTEGER NOT NULL,
		marker_count INTEGER NOT NULL,
		style_count INTEGER NOT NULL,
		markers TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *historyDB) Create(ctx context.Context, e dao.Entry) (dao.Entry, error) {
	newID, err := uuid.NewRandom()
	if err != nil {
		return dao.Entry{}, fmt.Errorf("could not generate ID: %w", err)
	}
	e.ID = newID
	e.Created = time.Now()

	markersData, err := rezi.Enc(e.Markers)
	if err != nil {
		return dao.Entry{}, fmt.Errorf("encode markers: %w", err)
	}
	encMarkers := base64.StdEncoding.EncodeToString(markersData)

	stmt, err := repo.db.Prepare(`INSERT INTO history
		(id, axiom, text, success, ambiguous, marker_count, style_count, markers, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Entry{}, wrapDBError(err)
	}

	_, err = stmt.ExecContext(ctx, e.ID.String(), e.Axiom, e.Text, e.Success, e.Ambiguous,
		e.MarkerCount, e.StyleCount, encMarkers, e.Created.Unix())
	if err != nil {
		return dao.Entry{}, wrapDBError(err)
	}

	return e, nil
}

func (repo *historyDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Entry, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT axiom, text, success, ambiguous, marker_count,
		style_count, markers, created FROM history WHERE id = ?;`, id.String())

	e := dao.Entry{ID: id}
	var encMarkers string
	var created int64
	err := row.Scan(&e.Axiom, &e.Text, &e.Success, &e.Ambiguous, &e.MarkerCount,
		&e.StyleCount, &encMarkers, &created)
	if err != nil {
		return dao.Entry{}, wrapDBError(err)
	}

	e.Created = time.Unix(created, 0)
	e.Markers, err = base64.StdEncoding.DecodeString(encMarkers)
	if err != nil {
		return e, fmt.Errorf("stored markers for %s are invalid: %w", e.ID, err)
	}

	return e, nil
}

func (repo *historyDB) GetRecent(ctx context.Context, limit int) ([]dao.Entry, error) {
	q := `SELECT id, axiom, text, success, ambiguous, marker_count, style_count, markers, created
		FROM history ORDER BY created DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		q += ` LIMIT ?`
		rows, err = repo.db.QueryContext(ctx, q, limit)
	} else {
		rows, err = repo.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Entry
	for rows.Next() {
		var e dao.Entry
		var id string
		var encMarkers string
		var created int64
		if err := rows.Scan(&id, &e.Axiom, &e.Text, &e.Success, &e.Ambiguous,
			&e.MarkerCount, &e.StyleCount, &encMarkers, &created); err != nil {
			return nil, wrapDBError(err)
		}

		e.ID, err = uuid.Parse(id)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid", id)
		}
		e.Created = time.Unix(created, 0)
		e.Markers, err = base64.StdEncoding.DecodeString(encMarkers)
		if err != nil {
			return all, fmt.Errorf("stored markers for %s are invalid: %w", e.ID, err)
		}

		all = append(all, e)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}
