package main

import (
	"github.com/enryu8191/Creator-Bot/bot"
)

func main() {
	bot.Start()
}
