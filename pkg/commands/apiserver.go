package commands

import (
	"github.com/merchware/scanlink/pkg/apiserver"
	"github.com/merchware/scanlink/pkg/backend"
	"github.com/merchware/scanlink/pkg/catalog"
	"github.com/merchware/scanlink/pkg/db"
	"github.com/merchware/scanlink/pkg/version"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

type apiServerCommand struct{}

func (s *apiServerCommand) Execute(c *cli.Context) error {
	ctx := signals.SetupSignalContext()

	log := logrus.WithField("command", "api-server")

	log.Infof("version: %v", version.Get())

	database, err := db.New(ctx, c.String("sql-dialect"), c.String("sql-dsn"), &gorm.Config{
		Logger: db.NewLogger(c.String("log-level")),
	})
	if err != nil {
		return err
	}

	cat := catalog.NewAdminClient(c.String("shop-host"), c.String("catalog-token"))

	back, err := backend.NewBackend(c.String("host-scheme"), c.String("host-name"),
		c.Int64("reconcile-interval-seconds"), cat, database)
	if err != nil {
		return err
	}

	apiServer := apiserver.NewAPIServer(ctx, log, c.Int("port"))

	if err := apiServer.Start(back); err != nil {
		return err
	}

	return nil
}

func serverCommand() *cli.Command {
	cmd := apiServerCommand{}

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Usage:   "Port for the HTTP Server Port",
			EnvVars: []string{"SCANLINK_PORT", "PORT"},
			Value:   8081,
		},
		&cli.StringFlag{
			Name:    "sql-dialect",
			Usage:   "The type of sql to use, sqlite or mysql",
			EnvVars: []string{"SCANLINK_SQL_DIALECT", "SQL_DIALECT"},
			Value:   "sqlite",
		},
		&cli.StringFlag{
			Name:    "sql-dsn",
			Usage:   "The DSN to use to connect to",
			EnvVars: []string{"SCANLINK_SQL_DSN", "SQL_DSN"},
			Value:   "file:scanlink.sqlite",
		},
		&cli.StringFlag{
			Name:    "host-scheme",
			Usage:   "Scheme of the app's public host, used in scan and image links",
			EnvVars: []string{"SCANLINK_HOST_SCHEME", "HOST_SCHEME"},
			Value:   "https",
		},
		&cli.StringFlag{
			Name:     "host-name",
			Usage:    "The app's public host name, used in scan and image links",
			EnvVars:  []string{"SCANLINK_HOST_NAME", "HOST_NAME"},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "shop-host",
			Usage:    "The shop's myshopify host, target of catalog lookups",
			EnvVars:  []string{"SCANLINK_SHOP_HOST", "SHOP_HOST"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "catalog-token",
			Usage:   "Admin API access token for catalog lookups",
			EnvVars: []string{"SCANLINK_CATALOG_TOKEN", "CATALOG_TOKEN"},
		},
		&cli.Int64Flag{
			Name:    "reconcile-interval-seconds",
			Usage:   "How often to sweep for stale discount references",
			EnvVars: []string{"SCANLINK_RECONCILE_INTERVAL_SECONDS", "RECONCILE_INTERVAL_SECONDS"},
			Value:   3600,
		},
	}

	return &cli.Command{
		Name:   "api-server",
		Usage:  "scanlink api server",
		Action: cmd.Execute,
		Flags:  append(flags, GlobalFlags()...),
		Before: Before,
	}
}
