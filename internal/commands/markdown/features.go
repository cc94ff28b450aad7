package markdowncmd

// FeatureGates exposes runtime feature toggles required by markdown command handlers.
// Callers supply closures reading runtimeconfig.Features so handlers stay
// decoupled from configuration while honouring the flags.
type FeatureGates struct {
	RepairEnabled func() bool
}

func (g FeatureGates) repairEnabled() bool {
	if g.RepairEnabled == nil {
		return true
	}
	return g.RepairEnabled()
}
