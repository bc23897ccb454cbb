package main

import "github.com/AzielCF/az-console/cmd"

func main() {
	cmd.Execute()
}
