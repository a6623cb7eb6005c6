package main

import "github.com/nrad-K/go-standings/cmd"

func main() {
	cmd.Execute()
}
