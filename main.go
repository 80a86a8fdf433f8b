package main

import "cinebook-cli/cmd"

func main() {
	cmd.Execute()
}
