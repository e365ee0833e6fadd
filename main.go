package main

import "github.com/tanq16/diskdestroyer/cmd"

func main() {
	cmd.Execute()
}
