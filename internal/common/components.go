package common

const (
	ComponentCoordinator  = "coordinator"
	ComponentSubscription = "subscription"
	ComponentHandlers     = "handlers"
	ComponentStore        = "store"
	ComponentReconciler   = "reconciler"
	ComponentMaintenance  = "maintenance"
	ComponentAPI          = "api"
	ComponentRPC          = "rpc"
)

var AllComponents = map[string]struct{}{
	ComponentCoordinator:  {},
	ComponentSubscription: {},
	ComponentHandlers:     {},
	ComponentStore:        {},
	ComponentReconciler:   {},
	ComponentMaintenance:  {},
	ComponentAPI:          {},
	ComponentRPC:          {},
}
