package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	lib "github.com/awused/manyacg-wallpaper/lib"
	"github.com/urfave/cli/v2"
)

var apiURL = lib.APIURL

func runAction(c *cli.Context) error {
	conf, err := lib.Init(c.String(config))
	checkErr(err)

	if conf.LogFile != "" {
		f, err := os.OpenFile(conf.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Error opening log file: %v", err)
		}
		defer f.Close()

		log.SetOutput(f)
	}

	err = os.MkdirAll(conf.DownloadDir, 0755)
	if err != nil {
		checkErr(fmt.Errorf(
			"Error creating download_dir [%s]: %w", conf.DownloadDir, err))
	}

	ch := lib.NewChanger(conf, systemFor(c, lib.Position(conf.Position)))
	ch.Fetcher.URL = apiURL

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Bool(once) {
		return ch.Cycle(ctx)
	}
	return ch.Run(ctx)
}
