package main

import "dandiscope/cmd"

func main() {
	cmd.Execute()
}
