package tree

// RoleFlags are the three role booleans of the current session.
type RoleFlags struct {
	Administrator bool
	Manager       bool
	Engineer      bool
}

// Capabilities gate what the navigation tree shows and allows.
type Capabilities struct {
	CanViewUnassignedDevices bool
	CanViewAccounts          bool
	CanEditAccounts          bool
	CanCreateDeleteAccounts  bool
}

// DeriveCapabilities maps role flags to capabilities. Re-derived on every
// call; the flags are independent booleans with no further combinatorics.
func DeriveCapabilities(flags RoleFlags) Capabilities {
	return Capabilities{
		CanViewUnassignedDevices: flags.Administrator || flags.Engineer,
		CanViewAccounts:          flags.Administrator || flags.Manager,
		CanEditAccounts:          flags.Administrator || flags.Manager,
		CanCreateDeleteAccounts:  flags.Administrator,
	}
}
