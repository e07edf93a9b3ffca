package main

import "github.com/scad-tools/flatscad/cmd"

func main() {
	cmd.Execute()
}
