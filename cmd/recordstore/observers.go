package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/recordstore/observability"
)

func observersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "observers",
		Short: "List the registered observer names",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range observability.ObserverNames() {
				fmt.Println(name)
			}
		},
	}
}
