package main

import "github.com/Sanjay-Dhandapani/smart-media-icon/internal/cmd"

func main() {
	cmd.Execute()
}
