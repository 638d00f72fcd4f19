// Package modkit provides module wiring and core deps
package modkit

import (
	"dcbadmin/internal/adapters/dcb"
	"dcbadmin/internal/adapters/oidc"
	"dcbadmin/internal/modkit/repokit"
	"dcbadmin/internal/platform/config"
	"dcbadmin/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// optional stores stay untyped nil when disabled
type Deps struct {
	Cfg   config.Conf
	PG    repokit.TxRunner
	CH    store.Clickhouse
	Cache store.Cache

	// upstream collaborators
	DCB  *dcb.Client
	OIDC *oidc.Provider
}
