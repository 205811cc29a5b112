package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	pool db.Pool
}

func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create ignores u.ID; the id comes from the users sequence.
func (r *PostgresRepository) Create(ctx context.Context, u User) (User, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, first_name, last_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		u.Username, u.Email, u.FirstName, u.LastName, u.IsActive, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrConflict
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, first_name, last_name, is_active, created_at, updated_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, email, first_name, last_name, is_active, created_at, updated_at
		FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return users, nil
}

func (r *PostgresRepository) SaveProfile(ctx context.Context, p Profile) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, bio, avatar_url, phone_number, date_of_birth, location)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE EXISTS (SELECT 1 FROM users WHERE id = $1)
		ON CONFLICT (user_id) DO UPDATE SET
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			phone_number = EXCLUDED.phone_number,
			date_of_birth = EXCLUDED.date_of_birth,
			location = EXCLUDED.location`,
		p.UserID, nullable(p.Bio), nullable(p.AvatarURL), nullable(p.PhoneNumber), p.DateOfBirth, nullable(p.Location),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID int64) (Profile, error) {
	var (
		p                            Profile
		bio, avatar, phone, location *string
		dob                          *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, bio, avatar_url, phone_number, date_of_birth, location
		FROM user_profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &bio, &avatar, &phone, &dob, &location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("select profile: %w", err)
	}
	p.Bio = deref(bio)
	p.AvatarURL = deref(avatar)
	p.PhoneNumber = deref(phone)
	p.Location = deref(location)
	p.DateOfBirth = dob
	return p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
