package main

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/sufield/lime/internal/domain"
	"github.com/sufield/lime/pkg/addressing"
)

func newIdentityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Parse identities and nodes",
	}

	parse := &cobra.Command{
		Use:   "parse <name@domain[/instance]>",
		Short: "Parse an identity or node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := domain.ParseNode(args[0])
			if err != nil {
				return err
			}
			id := node.Identity()
			cmd.Printf("name:     %s\n", id.Name())
			cmd.Printf("domain:   %s\n", id.Domain())
			if node.Instance() != "" {
				cmd.Printf("instance: %s\n", node.Instance())
			}
			cmd.Printf("key:      %s\n", id.Key())
			return nil
		},
	}

	fromURI := &cobra.Command{
		Use:     "from-uri <uri>",
		Short:   "Read the identity from a URI's user-info and host",
		Example: `  limectl identity from-uri lime://alice@example.com/presence`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil {
				return err
			}
			id, err := addressing.IdentityFromURI(u)
			if err != nil {
				return err
			}
			cmd.Println(id.String())
			return nil
		},
	}

	cmd.AddCommand(parse, fromURI)
	return cmd
}
