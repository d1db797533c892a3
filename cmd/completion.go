package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
//
// Install it with COMP_INSTALL=1 ptrade.
func Completion() *complete.Command {
	user := map[string]complete.Predictor{"u": predict.Something}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"dialect":   predict.Set{"sqlite", "postgres", "memory"},
			"db":        predict.Files("*.db"),
			"log-level": predict.Set{"debug", "info", "warn", "error"},
		},
		Sub: map[string]*complete.Command{
			"register": {Flags: map[string]complete.Predictor{
				"u": predict.Something,
				"p": predict.Something,
				"c": predict.Something,
			}},
			"quote":     {Args: predict.Something},
			"buy":       {Flags: user, Args: predict.Something},
			"sell":      {Flags: user, Args: predict.Something},
			"portfolio": {Flags: user},
			"history":   {Flags: user},
			"serve":     {Flags: map[string]complete.Predictor{"port": predict.Something}},
			"help":      {},
			"flags":     {},
			"commands":  {},
		},
	}
}
