// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakevault/stakevault/api"
	"github.com/stakevault/stakevault/api/admin/health"
	"github.com/stakevault/stakevault/cmd/stakevault/httpserver"
	"github.com/stakevault/stakevault/cmd/stakevault/solo"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/lvldb"
	"github.com/stakevault/stakevault/metrics"
	"github.com/stakevault/stakevault/vault"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "StakeVault",
		Usage:     "Staking pools and vesting programs on a single-node chain",
		Copyright: "2025 The StakeVault developers",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			apiBacktraceLimitFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			blockIntervalFlag,
			queueLimitFlag,
			verbosityFlag,
			persistFlag,
			skipLogsFlag,
			cacheFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() { log.Info("exited") }()

	verbosity, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := log.Init(os.Stderr, verbosity, isatty.IsTerminal(os.Stderr.Fd()))

	metricsEnabled := ctx.Bool(enableMetricsFlag.Name)
	if metricsEnabled {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx)
	if err != nil {
		return errors.Wrap(err, "load genesis")
	}

	var (
		mainDB  kv.Store
		logDB   *logdb.LogDB
		dataDir = "Memory"
	)
	if ctx.Bool(persistFlag.Name) {
		if dataDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		db, err := openMainDB(ctx, dataDir)
		if err != nil {
			return err
		}
		defer func() { log.Info("closing main database..."); db.Close() }()
		mainDB = db

		if logDB, err = openLogDB(dataDir); err != nil {
			return err
		}
	} else {
		db, err := lvldb.NewMem()
		if err != nil {
			return errors.Wrap(err, "open memory main database")
		}
		defer db.Close()
		mainDB = db

		if logDB, err = logdb.NewMem(); err != nil {
			return errors.Wrap(err, "open memory log database")
		}
	}
	defer func() { log.Info("closing log database..."); logDB.Close() }()

	repo, stater, err := solo.InitChain(gene, mainDB, logDB)
	if err != nil {
		return errors.Wrap(err, "initialize chain")
	}

	skipLogs := ctx.Bool(skipLogsFlag.Name)
	queueLimit := ctx.Int(queueLimitFlag.Name)
	soloInstance := solo.New(repo, stater, logDB, solo.Options{
		BlockInterval: vault.BlockInterval(),
		SkipLogs:      skipLogs,
		QueueLimit:    queueLimit,
	})

	var apiLogs atomic.Bool
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler, apiCloser := api.New(repo, soloInstance, logDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		SkipLogs:             skipLogs,
		EnableMetrics:        metricsEnabled,
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		BacktraceLimit:       uint32(ctx.Uint64(apiBacktraceLimitFlag.Name)),
		EnableReqLogger:      &apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
	})

	apiURL, srvCloser, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), apiHandler, gene.ID())
	if err != nil {
		return err
	}
	defer func() {
		log.Info("stopping API server...")
		apiCloser()
		srvCloser()
	}()

	if metricsEnabled {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		log.Info("metrics server started", "url", url)
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
	}

	g, gctx := errgroup.WithContext(exitSignal)

	if ctx.Bool(enableAdminFlag.Name) {
		healthStatus := health.New(repo, time.Duration(vault.BlockInterval())*time.Second)
		g.Go(func() error {
			healthStatus.Run(gctx)
			return nil
		})

		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, &apiLogs, healthStatus)
		if err != nil {
			return errors.Wrap(err, "start admin server")
		}
		log.Info("admin server started", "url", url)
		defer func() { log.Info("stopping admin server..."); closeFunc() }()
	}

	printStartupMessage(gene, repo, dataDir, apiURL)

	g.Go(func() error {
		return soloInstance.Run(gctx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
