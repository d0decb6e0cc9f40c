package main

import "marbl-settings/internal/cli"

func main() {
	cli.Execute()
}
