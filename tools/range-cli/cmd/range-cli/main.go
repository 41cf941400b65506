package main

import (
	"os"

	"github.com/malbeclabs/range/tools/range-cli/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
