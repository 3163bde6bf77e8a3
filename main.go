package main

import "github.com/patiolink/notimail/cmd"

func main() {
	cmd.Execute()
}
