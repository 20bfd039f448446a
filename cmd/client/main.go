package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/filekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/filekeeper/internal/client/cli"
	"github.com/dmitrijs2005/filekeeper/internal/client/config"
	"github.com/dmitrijs2005/filekeeper/internal/client/identity"
	"github.com/dmitrijs2005/filekeeper/internal/client/remote"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	log := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	node := identity.Discover()
	log.Info(ctx, "node discovered", "uuid", node.UUID, "ip", node.IP, "mac", node.MAC)

	rc, err := remote.Dial(ctx, cfg.Remote(), log)
	if err != nil {
		log.Error(ctx, "cannot reach remote store", "err", err)
		os.Exit(1)
	}
	defer rc.Close()

	app, err := cli.NewApp(ctx, cfg, rc, node, log)
	if err != nil {
		log.Error(ctx, "cannot start client", "err", err)
		_ = rc.Close()
		os.Exit(1)
	}

	app.Run(ctx)

}
