package main

import "github.com/kamal-hamza/chanplot/cmd"

func main() {
	cmd.Execute()
}
