package cli

import (
	"context"
	"io"

	cliadapter "github.com/example/geoanchor/internal/adapters/cli"
	"github.com/example/geoanchor/internal/adapters/sim"
	"github.com/example/geoanchor/internal/app"
	"github.com/example/geoanchor/internal/config"
	"github.com/example/geoanchor/internal/ctxutil"
	"github.com/example/geoanchor/internal/ports/primary"
	"github.com/example/geoanchor/internal/script"
	"github.com/example/geoanchor/internal/wire"
)

// simSession is a placement session on a simulated host with the saved
// catalog rehydrated into its scene. A fresh session unloads the catalog
// first and starts from an empty scene.
type simSession struct {
	ctx     context.Context
	host    *sim.Host
	session *app.PlacementSessionImpl
	catalog primary.CatalogService
	printer *cliadapter.SessionAdapter
}

func newSimSession(cfg *config.Config, catalog primary.CatalogService, out io.Writer, fresh bool) (*simSession, error) {
	if fresh {
		catalog.Unload()
	}
	host := wire.NewSimHost(cfg)
	ctx := ctxutil.WithSessionID(context.Background(), ctxutil.NewSessionID())

	if _, err := catalog.Rehydrate(ctx, host.Anchors, host.Scene); err != nil {
		return nil, err
	}

	printer := cliadapter.NewSessionAdapter(out, host.Clock.Now())
	host.Console.OnEntry(printer.Message)

	return &simSession{
		ctx:     ctx,
		host:    host,
		session: wire.NewSession(cfg, catalog, host),
		catalog: catalog,
		printer: printer,
	}, nil
}

// run replays steps and returns the first step error.
func (s *simSession) run(sc *script.Script) (*script.Report, error) {
	defer s.session.Close()

	runner := script.NewRunner(s.session, s.catalog, s.host, wire.Logger())
	report, err := runner.Run(s.ctx, sc)
	if err != nil {
		return report, err
	}
	for _, st := range report.Steps {
		if st.Err != nil {
			return report, st.Err
		}
	}
	return report, nil
}
