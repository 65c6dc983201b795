package main

import "github.com/frahmantamala/club-finance/cmd"

func main() {
	cmd.Execute()
}
