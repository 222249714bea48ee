package main

import "github.com/huddleup/gameplan/cmd"

func main() {
	cmd.Execute()
}
