package main

import "github.com/joshcarp/skipgram"

func main() {
	skipgram.InitializeCommand()
}
