// Command distaf scores systems against a trustworthiness framework.
package main

import (
	"github.com/kimbotto/distaf/cmd"
	"github.com/kimbotto/distaf/internal/contract"
	"github.com/kimbotto/distaf/internal/iocache"
)

func main() {
	defer iocache.CloseCaching()
	cmd.SetCacheManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		iocache.CloseCaching()
		contract.LogFatal("distaf failed", err)
	}
}
