package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("usuario no encontrado")
	ErrEmailTaken = errors.New("el email ya está registrado")
)

type Repo struct{ DB *pgxpool.Pool }

// Create registers a user with role cliente unless roleID says otherwise.
// The plaintext password never reaches the database.
func (r *Repo) Create(ctx context.Context, nombre, email, password string, roleID int) (*User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := User{Nombre: nombre, Email: email, RoleID: roleID}
	err = r.DB.QueryRow(ctx, `
		INSERT INTO users (nombre, email, password_hash, role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		nombre, email, hash, roleID,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if roleID == RoleIDAdministrador {
		u.Role = RoleAdministrador
	} else {
		u.Role = RoleCliente
	}
	return &u, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT u.id, u.nombre, u.email, u.password_hash, u.role_id, r.nombre, u.created_at
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.email = $1`,
		email,
	).Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &u.RoleID, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT u.id, u.nombre, u.email, u.role_id, r.nombre, u.created_at
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.id = $1`,
		id,
	).Scan(&u.ID, &u.Nombre, &u.Email, &u.RoleID, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindAll(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT u.id, u.nombre, u.email, u.role_id, r.nombre, u.created_at
		FROM users u
		JOIN roles r ON u.role_id = r.id
		ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Email, &u.RoleID, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateRole(ctx context.Context, id int64, roleID int) (*User, error) {
	ct, err := r.DB.Exec(ctx, `UPDATE users SET role_id = $1 WHERE id = $2`, roleID, id)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}
