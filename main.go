package main

import "github.com/openhazard/logictree/cmd"

func main() {
	cmd.Execute()
}
