package main

import "inventory-comparer/cmd"

func main() {
	cmd.Execute()
}
