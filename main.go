package main

import "sysyc/cmd"

func main() {
	cmd.Execute()
}
