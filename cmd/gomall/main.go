package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gomallhq/gomall/config"
	"github.com/gomallhq/gomall/internal/adminapi"
	"github.com/gomallhq/gomall/internal/app"
	"github.com/gomallhq/gomall/internal/webapi"
	"github.com/gomallhq/gomall/internal/webserver"
)

var (
	cfile  = flag.String("c", "/etc/gomall.yml", "config file")
	initdb = flag.Bool("initdb", false, "drop and recreate the database schema, then seed")
	debug  = flag.Bool("x", false, "debug mode")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*cfile)
	if *debug {
		cfg.System.Debug = true
		cfg.Database.Debug = true
	}

	mall := app.NewApplication(cfg)
	mall.Init(cfg)
	defer mall.Release()

	if *initdb {
		mall.InitDb()
		fmt.Fprintln(os.Stdout, "database initialized")
		return
	}

	webserver.Init(cfg, mall.DB())
	webapi.InitRouter(mall.Bus())
	adminapi.InitRouter()

	if err := webserver.Server().Listen(); err != nil {
		zap.L().Fatal("web server stopped", zap.Error(err))
	}
}
