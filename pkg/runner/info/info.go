package info

import (
	"context"
	"fmt"
	"os"

	"tableflip.dev/pitstop/pkg/config"
	"tableflip.dev/pitstop/pkg/store"
)

type Info struct {
	Config  *config.Config
	Journal store.Journal
}

func (n *Info) Do(ctx context.Context) error {

	if override := os.Getenv("PITSTOP_CONFIG_PATH"); override != "" {
		fmt.Println("PITSTOP_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Println("PITSTOP_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = config.Load()
		if err != nil {
			return err
		}
	}

	file := n.Config.File
	if file == "" {
		file = "none, using defaults"
	}
	fmt.Println("Config.file: ", file)
	fmt.Println("API.base_url: ", n.Config.BaseURL)
	fmt.Println("API.timeout: ", n.Config.Timeout)
	fmt.Println("Poll.interval: ", n.Config.PollInterval)
	fmt.Println("Shop.timezone: ", n.Config.Location)
	fmt.Println("Journal.path: ", n.Config.BasePath())

	if n.Journal == nil {
		return fmt.Errorf("failed to open the journal")
	}

	fmt.Printf("Journal days:\n")
	foundDays := 0
	for _, d := range n.Journal.Days(ctx) {
		fmt.Printf("  %s\n", d)
		foundDays++
	}

	if foundDays == 0 {
		fmt.Printf("  %s\n", "no activity recorded")
	}

	return nil
}
