package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/MKhiriev/go-claim-vault/internal/client"
)

func main() {
	var app client.Client = client.NewApp(os.Stdout)

	// the parser prints its own and command errors to stderr
	if err := app.Run(os.Args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
