package main

import "sitelink/cmd"

func main() {
	cmd.Execute()
}
