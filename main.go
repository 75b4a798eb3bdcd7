package main

import "bandori-index/cmd"

func main() {
	cmd.Execute()
}
