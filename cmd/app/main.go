package main

import (
	"github.com/margav-energy/Pama-Lodge/config"
	"github.com/margav-energy/Pama-Lodge/di"
	"github.com/margav-energy/Pama-Lodge/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
