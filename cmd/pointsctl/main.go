package main

import (
	"os"

	"github.com/mwork/points-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
