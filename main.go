// Package main is the entry point for the nhlxg CLI tool, which scrapes NHL
// play-by-play shot events and derives model-ready xG features.
package main

import "github.com/nolantphillips/nhl-predictors/cmd"

func main() {
	cmd.Execute()
}
