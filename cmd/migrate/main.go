package main

import "github.com/sangkips/dukahub-api/cmd/migrate/commands"

func main() {
	commands.Execute()
}
