package main

import "artiststudio/cmd"

func main() {
	cmd.Execute()
}
