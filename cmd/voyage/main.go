package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/smartvoyage/internal/buildinfo"
	"github.com/dmitrijs2005/smartvoyage/internal/client/app"
	"github.com/dmitrijs2005/smartvoyage/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	a, err := app.NewApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
