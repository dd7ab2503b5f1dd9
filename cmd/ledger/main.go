package main

import "ledger/internal/cli"

func main() {
	cli.Execute()
}
