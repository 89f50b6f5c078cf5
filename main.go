package main

import "clan-ledger/cmd"

func main() {
	cmd.Execute()
}
