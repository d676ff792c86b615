package main

import "prashiskshan/backend/cli"

func main() {
	cli.Execute()
}
