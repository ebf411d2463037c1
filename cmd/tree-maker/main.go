package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/temirov/tree-maker/internal/cli"
	"github.com/temirov/tree-maker/internal/utils"
)

// main is the entry point for the tree-maker command.
func main() {
	verbose, _ := strconv.ParseBool(os.Getenv(utils.VerboseEnvironmentVariable))
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(verbose)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	if applicationExecutionError := cli.Execute(context.Background(), loggerInstance); applicationExecutionError != nil {
		// fang has already printed the error.
		loggerInstance.Debug(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
		_ = loggerInstance.Sync()
		os.Exit(1)
	}
	_ = loggerInstance.Sync()
}
