package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/reelmatch/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		overview TEXT NOT NULL DEFAULT '',
		cast_members TEXT NOT NULL DEFAULT '[]',
		directors TEXT NOT NULL DEFAULT '[]',
		keywords TEXT NOT NULL DEFAULT '[]',
		genres TEXT NOT NULL DEFAULT '[]',
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_movies_position ON movies(position);
	CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title COLLATE NOCASE);
	`
	_, err := db.Exec(schema)
	return err
}

type listColumns struct {
	cast, directors, keywords, genres string
}

func encodeLists(m *models.Movie) (listColumns, error) {
	var out listColumns
	for _, f := range []struct {
		dst  *string
		list []string
	}{
		{&out.cast, m.Cast},
		{&out.directors, m.Directors},
		{&out.keywords, m.Keywords},
		{&out.genres, m.Genres},
	} {
		list := f.list
		if list == nil {
			list = []string{}
		}
		b, err := json.Marshal(list)
		if err != nil {
			return out, fmt.Errorf("failed to marshal list: %w", err)
		}
		*f.dst = string(b)
	}
	return out, nil
}

func decodeLists(m *models.Movie, cols listColumns) error {
	for _, f := range []struct {
		src string
		dst *[]string
	}{
		{cols.cast, &m.Cast},
		{cols.directors, &m.Directors},
		{cols.keywords, &m.Keywords},
		{cols.genres, &m.Genres},
	} {
		var list []string
		if err := json.Unmarshal([]byte(f.src), &list); err != nil {
			return fmt.Errorf("failed to unmarshal list: %w", err)
		}
		if len(list) > 0 {
			*f.dst = list
		}
	}
	return nil
}

// UpsertMovies inserts or updates movies in a single transaction.
func (s *SQLiteStorage) UpsertMovies(ctx context.Context, movies []models.Movie) (inserted, updated int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM movies`).Scan(&next); err != nil {
		return 0, 0, err
	}

	exists, err := tx.PrepareContext(ctx, `SELECT 1 FROM movies WHERE id = ?`)
	if err != nil {
		return 0, 0, err
	}
	defer exists.Close()
	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO movies (id, position, title, overview, cast_members, directors, keywords, genres, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, 0, err
	}
	defer insert.Close()
	update, err := tx.PrepareContext(ctx,
		`UPDATE movies SET title = ?, overview = ?, cast_members = ?, directors = ?, keywords = ?, genres = ?, updated_at = ?
		 WHERE id = ?`,
	)
	if err != nil {
		return 0, 0, err
	}
	defer update.Close()

	now := time.Now()
	for i := range movies {
		m := &movies[i]
		cols, err := encodeLists(m)
		if err != nil {
			return 0, 0, err
		}
		var one int
		switch err := exists.QueryRowContext(ctx, m.ID).Scan(&one); {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := insert.ExecContext(ctx, m.ID, next, m.Title, m.Overview,
				cols.cast, cols.directors, cols.keywords, cols.genres, now); err != nil {
				return 0, 0, fmt.Errorf("insert movie %d: %w", m.ID, err)
			}
			next++
			inserted++
		case err != nil:
			return 0, 0, err
		default:
			if _, err := update.ExecContext(ctx, m.Title, m.Overview,
				cols.cast, cols.directors, cols.keywords, cols.genres, now, m.ID); err != nil {
				return 0, 0, fmt.Errorf("update movie %d: %w", m.ID, err)
			}
			updated++
		}
		m.UpdatedAt = now
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}

const movieColumns = `id, title, overview, cast_members, directors, keywords, genres, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(r rowScanner) (*models.Movie, error) {
	var m models.Movie
	var cols listColumns
	if err := r.Scan(&m.ID, &m.Title, &m.Overview, &cols.cast, &cols.directors, &cols.keywords, &cols.genres, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeLists(&m, cols); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMovie returns a movie by id.
func (s *SQLiteStorage) GetMovie(ctx context.Context, id int) (*models.Movie, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrMovieNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMovie removes a movie by id.
func (s *SQLiteStorage) DeleteMovie(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrMovieNotFound, id)
	}
	return nil
}

// ListMovies returns movies ordered by catalog position.
func (s *SQLiteStorage) ListMovies(ctx context.Context, offset, limit int) ([]models.Movie, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies ORDER BY position LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

// CountMovies returns the total number of movies.
func (s *SQLiteStorage) CountMovies(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
