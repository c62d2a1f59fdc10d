// Package cli implements the tachograph command line tool.
package cli

import (
	"route-safety-service/internal/ports"

	"github.com/spf13/cobra"
)

// App holds the collaborators used by CLI commands. Catalog and Provider may
// be nil; commands that need them report an error.
type App struct {
	Catalog  ports.LocationCatalog
	Provider ports.DistanceProvider
}

// NewRootCmd creates the top-level "tachograph" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tachograph",
		Short:         "Truck break schedules and trip duration estimates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBreaksCmd(),
		newTripCmd(app),
	)

	return root
}
