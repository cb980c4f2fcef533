package app

import "fmt"

// ============================================================
// MCP Approvals
// ============================================================
//
// The standalone MCP process (`dash --mcp`) writes pending approvals to
// the mcp_approvals table and polls for a verdict. The dashboard watcher
// surfaces them to the frontend as "mcp:approval-required" events; the
// frontend answers through this binding.

// ResolveMCPApproval records the user's verdict for a pending MCP action.
func (a *App) ResolveMCPApproval(actionID string, approved bool) error {
	status := "rejected"
	if approved {
		status = "approved"
	}
	res, err := a.db.Conn().Exec(
		`UPDATE mcp_approvals SET status = ? WHERE id = ? AND status = 'pending'`,
		status, actionID,
	)
	if err != nil {
		return fmt.Errorf("resolve mcp approval: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no pending approval with id %s", actionID)
	}
	return nil
}
