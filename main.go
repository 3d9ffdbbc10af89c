/*
	Copyright 2025 Pitwall contributors
*/

package main

import "github.com/pitwall/strategy-engine-go/cmd"

func main() {
	cmd.Execute()
}
