package permission

import (
	"testing"

	"github.com/stretchr/testify/require"

	"helpdesk-console/internal/model"
)

func matrixProfile() *model.UserProfile {
	return &model.UserProfile{
		UserID:   "u-1",
		RoleName: "Agent",
		RolePermissions: []model.ModulePermission{
			{
				ModuleName: ModuleTickets,
				Permissions: map[string]bool{
					model.CapRead:         true,
					model.CapCreate:       true,
					model.CapUpdate:       true,
					model.CapDelete:       false,
					model.CapCreateTicket: true,
					model.CapAssignTicket: false,
				},
			},
			{
				ModuleName: ModuleDashboard,
				Permissions: map[string]bool{
					model.CapRead:           true,
					model.CapSevenDayTrends: true,
					model.CapTicketByStatus: true,
				},
			},
		},
	}
}

func TestEvaluator(t *testing.T) {
	t.Parallel()

	t.Run("grants flags present and true", func(t *testing.T) {
		ev := NewEvaluator(matrixProfile())

		require.True(t, ev.CanView(ModuleTickets))
		require.True(t, ev.CanAdd(ModuleTickets))
		require.True(t, ev.CanEdit(ModuleTickets))
		require.True(t, ev.CanCreateTicket(ModuleTickets))
		require.True(t, ev.CanViewSevenDayTrends(ModuleDashboard))
		require.True(t, ev.CanViewTicketByStatus(ModuleDashboard))
	})

	t.Run("denies explicit false flags", func(t *testing.T) {
		ev := NewEvaluator(matrixProfile())

		require.False(t, ev.CanDelete(ModuleTickets))
		require.False(t, ev.CanAssignTicket(ModuleTickets))
	})

	t.Run("denies flags absent from the module entry", func(t *testing.T) {
		ev := NewEvaluator(matrixProfile())

		require.False(t, ev.CanManageUsers(ModuleTickets))
		require.False(t, ev.CanViewReports(ModuleDashboard))
		require.False(t, ev.CanViewTicketByPriority(ModuleDashboard))
	})

	t.Run("denies every capability for an unknown module", func(t *testing.T) {
		ev := NewEvaluator(matrixProfile())

		for _, module := range []string{ModuleUsers, ModuleReports, "NoSuchModule"} {
			require.False(t, ev.CanView(module), module)
			require.False(t, ev.CanAdd(module), module)
			require.False(t, ev.CanEdit(module), module)
			require.False(t, ev.CanDelete(module), module)
		}
	})

	t.Run("module match is exact and case sensitive", func(t *testing.T) {
		ev := NewEvaluator(matrixProfile())

		require.False(t, ev.CanView("tickets"))
		require.False(t, ev.CanView(" Tickets"))
	})

	t.Run("nil profile denies everything and has empty matrix", func(t *testing.T) {
		ev := NewEvaluator(nil)

		require.Empty(t, ev.Permissions())
		require.False(t, ev.CanView(ModuleTickets))
		require.False(t, ev.CanCreateTicket(ModuleTickets))
		require.False(t, ev.Has(ModuleTickets, model.CapRead))
	})

	t.Run("nil permissions map denies without panicking", func(t *testing.T) {
		ev := NewEvaluator(&model.UserProfile{
			RolePermissions: []model.ModulePermission{{ModuleName: ModuleTickets}},
		})

		require.False(t, ev.CanView(ModuleTickets))
	})
}
