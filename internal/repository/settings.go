package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/smartlib/library-service/internal/errs"
	"github.com/smartlib/library-service/internal/model"
)

var settingsColumns = `id, library_name, max_borrow_duration, max_books_per_user, fine_per_day`

// GetSettings returns the singleton settings row, materializing the
// defaults on first read.
func (r *Repository) GetSettings(ctx context.Context) (model.Settings, error) {
	var s model.Settings
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `select `+settingsColumns+` from system_settings where id = 1`)
		if err != nil {
			return err
		}
		s, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Settings])
		if err == nil {
			return nil
		}
		if !errors.Is(translateErr(err), errs.ErrNotFound) {
			return err
		}

		def := model.DefaultSettings()
		rows, err = tx.Query(ctx, `
insert into system_settings (id, library_name, max_borrow_duration, max_books_per_user, fine_per_day)
values (1, $1, $2, $3, $4)
returning `+settingsColumns,
			def.LibraryName, def.MaxBorrowDuration, def.MaxBooksPerUser, def.FinePerDay)
		if err != nil {
			return err
		}
		s, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Settings])
		return err
	})
	if err != nil {
		return model.Settings{}, err
	}
	return s, nil
}

func (r *Repository) UpdateSettings(ctx context.Context, req model.UpdateSettingsRequest) (model.Settings, error) {
	rows, err := r.db.Query(ctx, `
insert into system_settings (id, library_name, max_borrow_duration, max_books_per_user, fine_per_day)
values (1, $1, $2, $3, $4)
on conflict (id) do update
    set library_name        = excluded.library_name,
        max_borrow_duration = excluded.max_borrow_duration,
        max_books_per_user  = excluded.max_books_per_user,
        fine_per_day        = excluded.fine_per_day
returning `+settingsColumns,
		req.LibraryName, req.MaxBorrowDuration, req.MaxBooksPerUser, req.FinePerDay)
	if err != nil {
		return model.Settings{}, translateErr(err)
	}
	s, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Settings])
	if err != nil {
		return model.Settings{}, translateErr(err)
	}
	return s, nil
}
