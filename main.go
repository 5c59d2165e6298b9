// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CrawX/go-mail-forwarder/config"
	"github.com/CrawX/go-mail-forwarder/discord"
	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/forwarder"
	"github.com/CrawX/go-mail-forwarder/gmail"
	"github.com/CrawX/go-mail-forwarder/imapconnection"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/CrawX/go-mail-forwarder/persistence"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"google.golang.org/api/option"
)

func main() {
	app := &cli.App{
		Name:  "go-mail-forwarder",
		Usage: "forward mail conversations into a discord forum channel",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
				Usage:   "path to the configuration file",
			},
			&cli.BoolFlag{
				Name:  "only-build-cache",
				Usage: "fetch all mails into the cache and exit without forwarding",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "log what would be forwarded without posting or caching anything",
			},
			&cli.StringFlag{
				Name:  "loglevel",
				Usage: "overrides Loglevel from the configuration file",
			},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Logger(log.LOG_MAIN).WithField("error", err).Fatal("Forwarder failed")
	}
}

func run(c *cli.Context) error {
	log.InitLogging("info")
	logger := log.Logger(log.LOG_MAIN)

	conf, err := config.ReadConfig(c.String("config"), func(conf *config.Config) {
		if c.Bool("only-build-cache") {
			conf.OnlyBuildCache = true
		}
		if c.Bool("dry-run") {
			conf.DryRun = true
		}
		if c.IsSet("loglevel") {
			level := c.String("loglevel")
			conf.Loglevel = &level
		}
	})
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	if conf.Loglevel != nil {
		log.SetLogLevel(*conf.Loglevel)
	}

	p, err := persistence.NewPersistence(conf.Database)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer p.Close()

	source, err := newMailSource(c.Context, conf)
	if err != nil {
		return fmt.Errorf("could not start %s source: %w", conf.Source, err)
	}
	defer source.Close()

	var sink domain.Sink
	if !conf.OnlyBuildCache {
		sink, err = discord.NewDiscord(conf.WebhookUrl, conf.RequestsPerSecond, conf.RetryAttempts, conf.RetryDelay.Duration)
		if err != nil {
			return fmt.Errorf("could not start discord connector: %w", err)
		}
	}

	configs := []forwarder.ConfigFunc{
		forwarder.StripHistory(conf.StripHistory),
		forwarder.MaxPostLength(conf.MaxPostLength),
	}
	if conf.DryRun {
		configs = append(configs, forwarder.DryRun())
	}
	if conf.OnlyBuildCache {
		configs = append(configs, forwarder.OnlyBuildCache())
	}

	fw, err := forwarder.NewForwarder(p, source, sink, configs...)
	if err != nil {
		return fmt.Errorf("could not start forwarder: %w", err)
	}

	logger.WithFields(logrus.Fields{"source": conf.Source, "dryrun": conf.DryRun, "onlybuildcache": conf.OnlyBuildCache}).Info("Building thread index")
	if conf.DryRun {
		logger.Warn("Skipping posting and caching due to dry-run")
	}
	err = fw.WarmStart(c.Context)
	if err != nil {
		return fmt.Errorf("warm start failed: %w", err)
	}

	return fw.Run(c.Context, conf.FetchInterval.Duration)
}

func newMailSource(ctx context.Context, conf *config.Config) (domain.MailSource, error) {
	switch conf.Source {
	case config.SourceImap:
		return imapconnection.NewImapConnection(
			conf.Imap.Host,
			conf.Imap.User,
			conf.Imap.Password,
			map[domain.MailType]string{
				domain.Received: conf.Imap.ReceivedFolder,
				domain.Sent:     conf.Imap.SentFolder,
			},
		)
	case config.SourceGmail:
		client, err := gmail.NewHttpClient(ctx, conf.Gmail.CredentialsPath, conf.Gmail.TokenPath, os.Stdin, os.Stdout)
		if err != nil {
			return nil, err
		}
		return gmail.NewGmail(ctx, conf.Gmail.User, conf.FetchConcurrency, option.WithHTTPClient(client))
	}

	return nil, fmt.Errorf("unsupported source %q", conf.Source)
}
