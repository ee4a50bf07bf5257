// Command mcchat is a terminal client for the McIntire chatbot.
package main

import "github.com/diogo/mcchat/internal/commands"

func main() {
	commands.Execute()
}
