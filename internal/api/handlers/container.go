// Package handlers implements the thin HTTP translation of spec §6: each
// handler binds a request, calls exactly one ledger/query/admin operation,
// and maps the result (or apperrors.Kind) onto a JSON response. There is no
// session or auth middleware here (spec §1 non-goal) — admin handlers take
// the acting employee id from the X-Employee-ID header, and the one
// operation that records an initiating user (Transfer) takes it as an
// optional body field. Grounded on the teacher's closure-based
// Make*Handler(dependencies) pattern (internal/api/handlers/account.go,
// transfer.go).
package handlers

import (
	"core-banking-ledger/internal/domain/admin"
	"core-banking-ledger/internal/domain/ledger"
	"core-banking-ledger/internal/domain/query"
)

// Dependencies bundles the domain-layer entry points every handler needs.
// Handlers take a *Dependencies directly rather than depending on an
// interface: unlike the teacher's HandlerDependencies, there's no import
// cycle here to break (ledger/query/admin never import handlers).
type Dependencies struct {
	Engine *ledger.Engine
	Views  *query.Views
	Admin  *admin.Operations
}

func NewDependencies(engine *ledger.Engine, views *query.Views, ops *admin.Operations) *Dependencies {
	return &Dependencies{Engine: engine, Views: views, Admin: ops}
}

const employeeIDHeader = "X-Employee-ID"
