// Package session persists imported race snapshots. Only the raw snapshot
// is stored; fitted models are always recomputed per request.
package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/pitwall/strategy-engine-go/pkg/model"
	"github.com/pitwall/strategy-engine-go/pkg/repository"
)

var ErrNotFound = errors.New("race session not found")

// Save inserts or replaces the snapshot for (year, race) and returns the
// row id.
//
//nolint:whitespace // can't make both editor and linter happy
func Save(
	ctx context.Context, conn repository.Querier, session *model.RaceSession,
) (int, error) {
	row := conn.QueryRow(ctx, `
	insert into race_session (year, race, total_laps, data)
	values ($1,$2,$3,$4)
	on conflict (year, race) do update
	set total_laps=excluded.total_laps, data=excluded.data, record_stamp=now()
	returning id
	`, session.Year, session.Race, session.TotalLaps, session)

	var id int
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

//nolint:whitespace // can't make both editor and linter happy
func LoadByKey(
	ctx context.Context, conn repository.Querier, year int, race string,
) (*model.RaceSession, error) {
	row := conn.QueryRow(ctx, `
	select data from race_session where year=$1 and race=$2
	`, year, race)

	var item model.RaceSession
	if err := row.Scan(&item); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListKeys returns the stored (year, race) keys, newest first.
//
//nolint:whitespace // can't make both editor and linter happy
func ListKeys(
	ctx context.Context, conn repository.Querier,
) ([]model.SessionKey, error) {
	rows, err := conn.Query(ctx, `
	select year, race from race_session order by year desc, race asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]model.SessionKey, 0)
	for rows.Next() {
		var key model.SessionKey
		if err := rows.Scan(&key.Year, &key.Race); err != nil {
			return nil, err
		}
		ret = append(ret, key)
	}
	return ret, rows.Err()
}

// DeleteByKey removes a stored snapshot, returns number of rows deleted.
//
//nolint:whitespace // can't make both editor and linter happy
func DeleteByKey(
	ctx context.Context, conn repository.Querier, year int, race string,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from race_session where year=$1 and race=$2", year, race)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}
