// Package workflow holds the pure state machine of the audit approval
// process: the role-gated transition table, the per-role visibility sets and
// the deterministic remark wording. Nothing here touches the database; the
// table is data so it can be tested exhaustively.
package workflow

import (
	"fmt"

	"github.com/Pranay9392/meity-audit-v2/internal/models"
)

// transitions is the single source of truth for legal status changes:
// role -> precondition state -> allowed target states. A transition is legal
// iff it appears here; everything else is rejected. Skipping states is
// therefore impossible by construction.
var transitions = map[models.Role]map[models.Status][]models.Status{
	models.RoleMeitYReviewer: {
		models.StatusSubmittedByCSP: {models.StatusForwardedToSTQC},
	},
	models.RoleSTQCAuditor: {
		models.StatusForwardedToSTQC: {models.StatusAuditCompletedBySTQC},
	},
	models.RoleScientistF: {
		models.StatusAuditCompletedBySTQC: {
			models.StatusApprovedByScientistF,
			models.StatusRejectedByScientistF,
		},
	},
}

// AllowedTargets returns the target states the role may move a request to
// from the given state. Empty for roles or states with no legal move.
func AllowedTargets(role models.Role, current models.Status) []models.Status {
	return transitions[role][current]
}

// CanAct reports whether the role is authorized for any transition out of the
// current state. Used to distinguish "not your turn" from "wrong stage".
func CanAct(role models.Role, current models.Status) bool {
	return len(transitions[role][current]) > 0
}

// Validate checks a requested transition against the table. It returns an
// *AuthorizationError when the role has no move out of the current state at
// all, and an *InvalidTransitionError when the role could act but the
// (current, target) pair is not in the table.
func Validate(role models.Role, current, target models.Status) error {
	if !CanAct(role, current) {
		return &AuthorizationError{Role: role, Action: "change the status", Status: current}
	}
	for _, allowed := range transitions[role][current] {
		if allowed == target {
			return nil
		}
	}
	return &InvalidTransitionError{Role: role, Current: current, Requested: target}
}

// IsTerminal reports whether no transition leaves the given state.
func IsTerminal(s models.Status) bool {
	return s == models.StatusApprovedByScientistF || s == models.StatusRejectedByScientistF
}

// TransitionRemark derives the audit-trail wording for an accepted
// transition. The text depends only on the acting role and the resulting
// status, never on caller input.
func TransitionRemark(role models.Role, target models.Status) string {
	switch role {
	case models.RoleMeitYReviewer:
		return fmt.Sprintf("MeitY Reviewer forwarded request to STQC. Status changed to '%s'.", target.Display())
	case models.RoleSTQCAuditor:
		return fmt.Sprintf("STQC Auditor marked audit as completed. Status changed to '%s'.", target.Display())
	case models.RoleScientistF:
		return fmt.Sprintf("Scientist F made final decision: '%s'.", target.Display())
	default:
		return fmt.Sprintf("Status changed to '%s'.", target.Display())
	}
}

// VisibleStatuses returns the status filter for listing requests:
//   - (nil, true)  — every request is visible regardless of status; the
//     caller may still scope by ownership (CSP sees only its own requests).
//   - (set, true)  — only requests in one of the returned statuses.
//   - (nil, false) — nothing is visible. Unknown roles fail closed.
//
// MeitY's set names all five states explicitly so that any state added later
// defaults to invisible until listed here.
func VisibleStatuses(role models.Role) ([]models.Status, bool) {
	switch role {
	case models.RoleCSP, models.RoleScientistF:
		return nil, true
	case models.RoleMeitYReviewer:
		return []models.Status{
			models.StatusSubmittedByCSP,
			models.StatusForwardedToSTQC,
			models.StatusAuditCompletedBySTQC,
			models.StatusApprovedByScientistF,
			models.StatusRejectedByScientistF,
		}, true
	case models.RoleSTQCAuditor:
		return []models.Status{models.StatusForwardedToSTQC}, true
	default:
		return nil, false
	}
}

// CanUploadDocument applies the upload gate: the owning CSP while the request
// is in its first two states, or an STQC Auditor while the request is
// forwarded for audit.
func CanUploadDocument(actor *models.User, request *models.AuditRequest) bool {
	if actor.IsCSP() && request.CSPID == actor.ID {
		return request.Status == models.StatusSubmittedByCSP || request.Status == models.StatusForwardedToSTQC
	}
	if actor.IsSTQCAuditor() {
		return request.Status == models.StatusForwardedToSTQC
	}
	return false
}
