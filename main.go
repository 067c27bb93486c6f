package main

import (
	log "github.com/sirupsen/logrus"

	"ad-dashboard/cmd"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := cmd.NewRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
