package repository

import (
	"context"
	"database/sql"
	"errors"
	"shop-api/model"

	"github.com/lib/pq"
)

// ErrDuplicateEmail is returned when a write violates the unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id int) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password, role) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query, user.Username, user.Email, user.Password, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, username, email, password, role, created_at, updated_at
		FROM users WHERE LOWER(email) = LOWER($1)`
	err := r.DB.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, username, email, password, role, created_at, updated_at
		FROM users WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	query := `SELECT id, username, email, password, role, created_at, updated_at
		FROM users ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Role,
			&user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET username = $1, email = $2, password = $3, role = $4, updated_at = now()
		WHERE id = $5 RETURNING updated_at`
	err := r.DB.QueryRowContext(ctx, query, user.Username, user.Email, user.Password, user.Role, user.ID).
		Scan(&user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
