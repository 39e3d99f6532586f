package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rcrowley/go-metrics"
	"github.com/refstake/refstake-go/config"
	"github.com/refstake/refstake-go/log"
	"github.com/refstake/refstake-go/node"
	"github.com/refstake/refstake-go/stats/collector"
	"gopkg.in/urfave/cli.v1"
)

const (
	Version = "0.1.0"
)

func main() {
	app := cli.NewApp()
	app.Name = "refstake"
	app.Usage = "referral registry and staking ledger"
	app.Version = Version

	app.Flags = []cli.Flag{
		config.CfgFileFlag,
		config.DataDirFlag,
		config.InMemoryFlag,
		config.VerbosityFlag,
		config.GasLimitFlag,
		config.OwnerFlag,
		config.ReferrerRewardFlag,
		config.RefereeRewardFlag,
	}

	app.Action = func(context *cli.Context) error {
		useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		log.Setup(os.Stderr, context.Int(config.VerbosityFlag.Name), useColor)

		cfg, err := config.MakeConfig(context)
		if err != nil {
			return err
		}

		n, err := node.NewNode(cfg, collector.NewMetricsCollector(metrics.DefaultRegistry))
		if err != nil {
			return err
		}
		if err := n.Start(); err != nil {
			return err
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		log.Info("Shutting down")
		return n.Stop()
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("Node stopped", "err", err)
		os.Exit(1)
	}
}
