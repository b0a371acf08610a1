package main

import "github.com/nativedep/nativedep/cmd/nativedep/internal"

func main() {
	internal.Execute()
}
