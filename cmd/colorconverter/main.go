package main

import "github.com/MeKo-Tech/colorconverter/internal/cmd"

func main() {
	cmd.Execute()
}
