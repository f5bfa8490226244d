package main

import "github.com/mateconpizza/gp/cmd"

func main() {
	cmd.Execute()
}
