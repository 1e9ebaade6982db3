package main

import (
	"os"

	"auditools/internal/adapters/cli"
)

func main() {
	os.Exit(cli.Main(cli.NewExtractTextsApp))
}
