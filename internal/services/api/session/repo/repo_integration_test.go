//go:build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	perr "dcbadmin/internal/platform/errors"
	"dcbadmin/internal/platform/store"
	"dcbadmin/internal/services/api/session/domain"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "dcbadmin",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/dcbadmin?sslmode=disable", host, port.Port())
}

func TestSessionRepo_Integration(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: startPostgres(t), SlowQueryMs: -1}})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if err := Migrate(ctx, st.PG); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// schema is idempotent
	if err := Migrate(ctx, st.PG); err != nil {
		t.Fatalf("Migrate twice: %v", err)
	}

	repo := NewPG().Bind(st.PG)
	exp := time.Date(2026, 10, 15, 12, 5, 0, 0, time.UTC)
	in := domain.Session{
		ID:           "0192f7a4-0000-7000-8000-000000000001",
		Subject:      "sub-1",
		Username:     "jdoe",
		Name:         "Jane Doe",
		Email:        "jdoe@example.org",
		Roles:        []string{"ADMIN"},
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		IDToken:      "id-1",
		AccessExpiry: exp,
	}

	t.Run("create and get", func(t *testing.T) {
		if err := repo.Create(ctx, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := repo.Get(ctx, in.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Subject != "sub-1" || len(got.Roles) != 1 || got.Roles[0] != "ADMIN" || !got.AccessExpiry.Equal(exp) {
			t.Fatalf("got = %+v", got)
		}
		if got.CreatedAt.IsZero() {
			t.Fatal("created_at not set")
		}
	})

	t.Run("duplicate id is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, in)
		if !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("token rotation keeps refresh token when none is issued", func(t *testing.T) {
		if err := repo.UpdateTokens(ctx, in.ID, domain.Tokens{AccessToken: "at-2", AccessExpiry: exp.Add(5 * time.Minute)}); err != nil {
			t.Fatalf("UpdateTokens: %v", err)
		}
		got, err := repo.Get(ctx, in.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.AccessToken != "at-2" || got.RefreshToken != "rt-1" || got.IDToken != "id-1" {
			t.Fatalf("tokens = %q %q %q", got.AccessToken, got.RefreshToken, got.IDToken)
		}
	})

	t.Run("tx rollback leaves the row", func(t *testing.T) {
		err := st.PG.Tx(ctx, func(q store.RowQuerier) error {
			if err := NewPG().Bind(q).Delete(ctx, in.ID); err != nil {
				return err
			}
			return perr.Conflictf("abort")
		})
		if !perr.IsCode(err, perr.ErrorCodeConflict) {
			t.Fatalf("tx err = %v", err)
		}
		if _, err := repo.Get(ctx, in.ID); err != nil {
			t.Fatalf("row gone after rollback: %v", err)
		}
	})

	t.Run("delete then get is unauthorized", func(t *testing.T) {
		if err := repo.Delete(ctx, in.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		_, err := repo.Get(ctx, in.ID)
		if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
			t.Fatalf("err = %v", err)
		}
		if err := repo.UpdateTokens(ctx, in.ID, domain.Tokens{AccessToken: "x", AccessExpiry: exp}); !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
			t.Fatalf("update missing session err = %v", err)
		}
	})
}
