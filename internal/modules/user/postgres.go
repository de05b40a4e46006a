package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateUser inserts the user and sets user.ID from the generated key.
func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (name, password, latitude, longitude, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING userid
	`
	return r.db.QueryRowContext(ctx, query,
		user.Name, user.PasswordHash, user.Latitude, user.Longitude, string(user.Role),
	).Scan(&user.ID)
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT userid, name, password, latitude, longitude, type
		FROM users
		WHERE userid = $1
	`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *postgresRepository) ListUsersByName(ctx context.Context, name string) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT userid, name, password, latitude, longitude, type
		FROM users
		WHERE name = $1
		ORDER BY userid`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *postgresRepository) UpdateUser(ctx context.Context, user *User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $1, password = $2, latitude = $3, longitude = $4, type = $5
		WHERE userid = $6`,
		user.Name, user.PasswordHash, user.Latitude, user.Longitude, string(user.Role), user.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, user.ID)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (*User, error) {
	user := &User{}
	var role string
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.PasswordHash,
		&user.Latitude,
		&user.Longitude,
		&role,
	); err != nil {
		return nil, err
	}
	// unknown stored roles are kept verbatim so that checks simply fail
	if parsed, err := ParseRole(role); err == nil {
		user.Role = parsed
	} else {
		user.Role = Role(role)
	}
	return user, nil
}
