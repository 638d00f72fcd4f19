// Package repo provides postgres access for admin sessions
package repo

import (
	"context"
	"errors"

	"dcbadmin/internal/modkit/repokit"
	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/services/api/session/domain"

	"github.com/jackc/pgx/v5"
)

// Schema creates the sessions table; applied at boot when SERVICE_PGSQL_MIGRATE is set
const Schema = `
create table if not exists admin_sessions (
	id            uuid primary key,
	subject       text not null,
	username      text not null default '',
	name          text not null default '',
	email         text not null default '',
	roles         text[] not null default '{}',
	access_token  text not null,
	refresh_token text not null default '',
	id_token      text not null default '',
	access_expiry timestamptz not null,
	created_at    timestamptz not null default now(),
	updated_at    timestamptz not null default now()
);
create index if not exists admin_sessions_subject_idx on admin_sessions (subject);
`

type (
	// PG implements domain.Repo using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// Compile-time assertion: queries implements domain.Repo
var _ domain.Repo = (*queries)(nil)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

// Migrate applies Schema
func Migrate(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, Schema)
	return perr.FromPostgres(err, "migrate admin_sessions")
}

func (r *queries) Create(ctx context.Context, s domain.Session) error {
	const sql = `
insert into admin_sessions
(id, subject, username, name, email, roles, access_token, refresh_token, id_token, access_expiry)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	roles := s.Roles
	if roles == nil {
		roles = []string{}
	}
	_, err := r.q.Exec(ctx, sql,
		s.ID, s.Subject, s.Username, s.Name, s.Email, roles,
		s.AccessToken, s.RefreshToken, s.IDToken, s.AccessExpiry,
	)
	return perr.FromPostgres(err, "create session")
}

func (r *queries) Get(ctx context.Context, id string) (domain.Session, error) {
	const sql = `
select id::text, subject, username, name, email, roles, access_token, refresh_token, id_token,
access_expiry, created_at, updated_at
from admin_sessions
where id = $1
`
	var s domain.Session
	err := r.q.QueryRow(ctx, sql, id).Scan(
		&s.ID,
		&s.Subject,
		&s.Username,
		&s.Name,
		&s.Email,
		&s.Roles,
		&s.AccessToken,
		&s.RefreshToken,
		&s.IDToken,
		&s.AccessExpiry,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, perr.Unauthorizedf("session not found or expired")
	}
	if err != nil {
		return domain.Session{}, perr.FromPostgres(err, "get session")
	}
	return s, nil
}

func (r *queries) UpdateTokens(ctx context.Context, id string, t domain.Tokens) error {
	const sql = `
update admin_sessions
set access_token = $2,
	refresh_token = case when $3::text = '' then refresh_token else $3 end,
	id_token = case when $4::text = '' then id_token else $4 end,
	access_expiry = $5,
	updated_at = now()
where id = $1
`
	tag, err := r.q.Exec(ctx, sql, id, t.AccessToken, t.RefreshToken, t.IDToken, t.AccessExpiry)
	if err != nil {
		return perr.FromPostgres(err, "update session tokens")
	}
	if tag.RowsAffected() == 0 {
		return perr.Unauthorizedf("session not found or expired")
	}
	return nil
}

func (r *queries) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `delete from admin_sessions where id = $1`, id)
	return perr.FromPostgres(err, "delete session")
}
