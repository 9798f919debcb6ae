package main

import "github.com/marcusziade/compiledthoughts/internal/cli"

func main() {
	cli.Execute()
}
