// main is the entry point of the kpitrend CLI.
package main

import (
	"os"

	"github.com/huangsam/kpitrend/cmd"
	"github.com/huangsam/kpitrend/internal/contract"
	"github.com/huangsam/kpitrend/internal/kpistore"
)

func main() {
	err := cmd.Execute()

	kpistore.CloseStores()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}

	if err != nil {
		contract.Logger.Error().Err(err).Msg("kpitrend failed")
		os.Exit(1)
	}
}
