// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/app/system/workers"
)

// locationCleanup is started in Startup and stopped in Shutdown. WAFFLE's
// hooks carry no app-owned state between the two, hence the package variable.
var locationCleanup *workers.LocationCleanup

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	locationCleanup = workers.NewLocationCleanup(deps.Locations, logger, 10*time.Minute, appCfg.LocationRetention)
	locationCleanup.Start()

	return nil
}
