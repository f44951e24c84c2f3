package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/quickurl/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

type urlRecord struct {
	ID          string    `db:"id"`
	Token       string    `db:"token"`
	OriginalURL string    `db:"original_url"`
	Title       *string   `db:"title"`
	CreatedAt   time.Time `db:"created_at"`
	ExpiresAt   time.Time `db:"expires_at"`
	ClickCount  int64     `db:"click_count"`
}

func (u *urlRecord) toEntity() *entity.URL {
	return &entity.URL{
		ID:          u.ID,
		Token:       u.Token,
		OriginalURL: u.OriginalURL,
		Title:       u.Title,
		CreatedAt:   u.CreatedAt,
		ExpiresAt:   u.ExpiresAt,
		ClickCount:  u.ClickCount,
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) Save(ctx context.Context, url *entity.URL) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.Save"
	const query = `INSERT INTO urls(id, token, original_url, title, created_at, expires_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING *`

	var rec urlRecord

	err := r.db.GetContext(ctx, &rec, query,
		url.ID, url.Token, url.OriginalURL, url.Title, url.CreatedAt, url.ExpiresAt)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrTokenExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return rec.toEntity(), nil
}

func (r *URLRepository) RetrieveByToken(ctx context.Context, token string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByToken"
	const query = `SELECT * FROM urls WHERE token = $1`

	var rec urlRecord

	if err := r.db.GetContext(ctx, &rec, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return rec.toEntity(), nil
}

func (r *URLRepository) RetrieveAll(ctx context.Context) ([]entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveAll"
	const query = `SELECT * FROM urls ORDER BY created_at DESC`

	var recs []urlRecord

	if err := r.db.SelectContext(ctx, &recs, query); err != nil {
		return nil, fmt.Errorf("%s: failed to select rows from urls table: %w", op, err)
	}

	urls := make([]entity.URL, 0, len(recs))
	for i := range recs {
		urls = append(urls, *recs[i].toEntity())
	}

	return urls, nil
}

func (r *URLRepository) IncrementClickCount(ctx context.Context, token string) (int64, error) {
	const op = "adapter.repository.postgres.URLRepository.IncrementClickCount"
	const query = `UPDATE urls SET click_count = click_count + 1 WHERE token = $1`

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to update urls table row: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	return rowsAffected, nil
}

func (r *URLRepository) RemoveByToken(ctx context.Context, token string) (int64, error) {
	const op = "adapter.repository.postgres.URLRepository.RemoveByToken"
	const query = `DELETE FROM urls WHERE token = $1`

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete from urls table: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	return rowsAffected, nil
}
