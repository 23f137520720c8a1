package main

import "github.com/AhsanRiaz786/the-sentinel/cmd"

func main() {
	cmd.Execute()
}
