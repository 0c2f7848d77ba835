package main

import "billgen/cmd"

func main() {
	cmd.Execute()
}
