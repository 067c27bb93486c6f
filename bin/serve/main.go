package main

import (
	log "github.com/sirupsen/logrus"

	"ad-dashboard/cmd"
)

// Runs the web server directly, for deployments that start a single binary without arguments
func main() {
	rootCmd := cmd.NewRootCmd()
	rootCmd.SetArgs([]string{"serve"})
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
