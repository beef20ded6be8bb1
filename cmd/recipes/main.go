package main

import (
	"os"

	"recipe-importer/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
